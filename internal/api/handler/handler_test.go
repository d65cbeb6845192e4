package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/api/middleware"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	pkgerrors "github.com/joseggch15/inboundoutbound-sub000/pkg/errors"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── mocks ──

// mockRosterService returns canned results; only the methods a test drives
// need values.
type mockRosterService struct {
	markResp *dto.MarkRangeResponse
	markErr  error
}

func (m *mockRosterService) MarkRange(ctx context.Context, actor service.Identity, req *dto.MarkRangeRequest) (*dto.MarkRangeResponse, error) {
	return m.markResp, m.markErr
}

func (m *mockRosterService) ClearRange(ctx context.Context, actor service.Identity, req *dto.ClearRangeRequest) (*dto.ClearRangeResponse, error) {
	return &dto.ClearRangeResponse{}, nil
}

func (m *mockRosterService) ReadRange(ctx context.Context, source, badge, startDate, endDate string) (map[string]dto.DayStatus, error) {
	return map[string]dto.DayStatus{}, nil
}

func (m *mockRosterService) ListBySource(ctx context.Context, source string) ([]dto.DutyRecordResponse, error) {
	return nil, nil
}

func (m *mockRosterService) Operations(ctx context.Context, offset, limit int) ([]dto.OperationResponse, int64, error) {
	return nil, 0, nil
}

// ── helpers ──

// setAuth stands in for JWTAuth and seeds the identity keys.
func setAuth(c *gin.Context) {
	c.Set(middleware.CtxUsername, "planner")
	c.Set(middleware.CtxRole, "admin")
	c.Set(middleware.CtxSource, "RGM")
	c.Next()
}

func newRosterRouter(svc service.RosterService) *gin.Engine {
	h := &RosterHandler{svc: svc, logger: zap.NewNop()}
	r := gin.New()
	r.Use(setAuth)
	r.POST("/roster/mark", h.MarkRange)
	return r
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return &resp
}

func markRequest() *dto.MarkRangeRequest {
	return &dto.MarkRangeRequest{
		Badge:     "ID00001",
		StartDate: "2024-01-10",
		EndDate:   "2024-01-14",
		Status:    "ON",
	}
}

// ── MarkRange ──

func TestMarkRangeSuccessEnvelope(t *testing.T) {
	svc := &mockRosterService{markResp: &dto.MarkRangeResponse{DaysWritten: 5, MirrorSynced: true}}
	r := newRosterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/roster/mark", jsonBody(t, markRequest()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Fatalf("code = %d, want 0", resp.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	if days, _ := data["days_written"].(float64); days != 5 {
		t.Fatalf("days_written = %v, want 5", data["days_written"])
	}
}

func TestMarkRangePartialWriteEnvelope(t *testing.T) {
	// the service reports how far a broken range write got; the envelope
	// carries that count so the caller can re-verify
	svc := &mockRosterService{
		markResp: &dto.MarkRangeResponse{DaysWritten: 3},
		markErr:  service.ErrRosterPartialWrite,
	}
	r := newRosterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/roster/mark", jsonBody(t, markRequest()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	resp := parseResponse(t, w)
	if resp.Code != response.CodePartialWrite {
		t.Fatalf("code = %d, want %d", resp.Code, response.CodePartialWrite)
	}
	if resp.Details != "days_written=3" {
		t.Fatalf("details = %q, want days_written=3", resp.Details)
	}
}

func TestMarkRangeRejectsMalformedJSON(t *testing.T) {
	r := newRosterRouter(&mockRosterService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/roster/mark", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != response.CodeInvalidParams {
		t.Fatalf("code = %d, want %d", resp.Code, response.CodeInvalidParams)
	}
}

func TestMarkRangeErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"bad date", pkgerrors.ErrBadDate, http.StatusBadRequest, response.CodeBadDate},
		{"inverted range", pkgerrors.ErrInvertedRange, http.StatusBadRequest, response.CodeInvertedRange},
		{"bad status", service.ErrRosterBadStatus, http.StatusBadRequest, response.CodeBadStatus},
		{"unknown badge", service.ErrRosterEmployeeNotFound, http.StatusNotFound, response.CodeEmployeeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRosterRouter(&mockRosterService{markErr: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/roster/mark", jsonBody(t, markRequest()))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if resp := parseResponse(t, w); resp.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", resp.Code, tc.wantCode)
			}
		})
	}
}
