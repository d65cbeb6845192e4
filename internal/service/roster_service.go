package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	"github.com/joseggch15/inboundoutbound-sub000/internal/sheet"
	pkgerrors "github.com/joseggch15/inboundoutbound-sub000/pkg/errors"
)

// ── roster module errors ──

var (
	ErrRosterBadStatus        = errors.New("status must be ON, ON NS or OFF")
	ErrRosterEmployeeNotFound = errors.New("no employee with that badge in this source")
	// ErrRosterPartialWrite a multi-day write failed partway; the completed
	// days remain committed. Callers should re-verify with a read.
	ErrRosterPartialWrite = errors.New("range write interrupted; completed days remain committed")
)

// RosterService is the duty ledger core: day-granular status writes keyed by
// (badge, date, source), with the spreadsheet mirror kept in sync.
type RosterService interface {
	// MarkRange upserts one record per day in [start, end] inclusive. Each
	// day is an independent write; the range is not atomic.
	MarkRange(ctx context.Context, actor Identity, req *dto.MarkRangeRequest) (*dto.MarkRangeResponse, error)
	// ClearRange deletes the records whose key falls in the range and
	// erases the matching mirror cells.
	ClearRange(ctx context.Context, actor Identity, req *dto.ClearRangeRequest) (*dto.ClearRangeResponse, error)
	// ReadRange returns only the recorded days, keyed YYYY-MM-DD.
	ReadRange(ctx context.Context, source, badge, startDate, endDate string) (map[string]dto.DayStatus, error)
	// ListBySource returns the whole ledger for a source, date ascending.
	ListBySource(ctx context.Context, source string) ([]dto.DutyRecordResponse, error)
	// Operations lists the append-only rotation history.
	Operations(ctx context.Context, offset, limit int) ([]dto.OperationResponse, int64, error)
}

type rosterService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates the RosterService.
func NewRosterService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{cfg: cfg, repo: repo, logger: logger}
}

// parseRange validates and orders the inclusive date range.
func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.ErrBadDate
	}
	end, err := time.Parse(model.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.ErrBadDate
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, pkgerrors.ErrInvertedRange
	}
	return start, end, nil
}

// ────────────────────── MarkRange ──────────────────────

func (s *rosterService) MarkRange(ctx context.Context, actor Identity, req *dto.MarkRangeRequest) (*dto.MarkRangeResponse, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if !model.ValidStatus(req.Status) {
		return nil, ErrRosterBadStatus
	}

	shiftType := req.ShiftType
	if shiftType == "" {
		shiftType = model.ShiftForStatus(req.Status)
	}
	if req.Status == model.StatusOff {
		shiftType = "" // shift is meaningless for OFF
	}

	employee, err := s.repo.Employee.GetByBadge(ctx, req.Badge, actor.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterEmployeeNotFound
		}
		s.logger.Error("lookup employee failed", zap.String("badge", req.Badge), zap.Error(err))
		return nil, err
	}

	// Per-day independent upserts: a failure leaves the earlier days
	// committed, which is the documented partial-write behavior.
	written := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		record := &model.DutyRecord{
			Badge:     req.Badge,
			Date:      d.Format(model.DateLayout),
			Status:    req.Status,
			ShiftType: shiftType,
			Source:    actor.Source,
		}
		if err := s.repo.Duty.Upsert(ctx, record); err != nil {
			s.logger.Error("ledger upsert failed",
				zap.String("badge", req.Badge),
				zap.String("date", record.Date),
				zap.Int("days_written", written),
				zap.Error(err))
			return &dto.MarkRangeResponse{DaysWritten: written},
				fmt.Errorf("%w: day %s: %v", ErrRosterPartialWrite, record.Date, err)
		}
		written++
	}

	s.appendHistory(ctx, employee, req.StartDate, req.EndDate)
	s.audit(ctx, actor, "MARK_RANGE",
		fmt.Sprintf("badge=%s %s..%s status=%s", req.Badge, req.StartDate, req.EndDate, req.Status))

	synced := s.syncMirror(employee, start, end, req.Status)

	return &dto.MarkRangeResponse{DaysWritten: written, MirrorSynced: synced}, nil
}

// ────────────────────── ClearRange ──────────────────────

func (s *rosterService) ClearRange(ctx context.Context, actor Identity, req *dto.ClearRangeRequest) (*dto.ClearRangeResponse, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.Employee.GetByBadge(ctx, req.Badge, actor.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterEmployeeNotFound
		}
		return nil, err
	}

	deleted, err := s.repo.Duty.DeleteRange(ctx, req.Badge, actor.Source, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error("ledger range delete failed", zap.String("badge", req.Badge), zap.Error(err))
		return nil, err
	}

	s.appendHistory(ctx, employee, req.StartDate, req.EndDate)
	s.audit(ctx, actor, "CLEAR_RANGE",
		fmt.Sprintf("badge=%s %s..%s removed=%d", req.Badge, req.StartDate, req.EndDate, deleted))

	synced := s.syncMirror(employee, start, end, sheet.StatusClear)

	return &dto.ClearRangeResponse{DaysDeleted: int(deleted), MirrorSynced: synced}, nil
}

// ────────────────────── ReadRange ──────────────────────

func (s *rosterService) ReadRange(ctx context.Context, source, badge, startDate, endDate string) (map[string]dto.DayStatus, error) {
	if _, _, err := parseRange(startDate, endDate); err != nil {
		return nil, err
	}

	records, err := s.repo.Duty.ListRange(ctx, badge, source, startDate, endDate)
	if err != nil {
		s.logger.Error("ledger range read failed", zap.String("badge", badge), zap.Error(err))
		return nil, err
	}

	result := make(map[string]dto.DayStatus, len(records))
	for _, r := range records {
		result[r.Date] = dto.DayStatus{Status: r.Status, ShiftType: r.ShiftType}
	}
	return result, nil
}

// ────────────────────── ListBySource ──────────────────────

func (s *rosterService) ListBySource(ctx context.Context, source string) ([]dto.DutyRecordResponse, error) {
	records, err := s.repo.Duty.ListBySource(ctx, source)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DutyRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, dto.DutyRecordResponse{
			Badge:     r.Badge,
			Date:      r.Date,
			Status:    r.Status,
			ShiftType: r.ShiftType,
			Source:    r.Source,
		})
	}
	return result, nil
}

// ────────────────────── Operations ──────────────────────

func (s *rosterService) Operations(ctx context.Context, offset, limit int) ([]dto.OperationResponse, int64, error) {
	ops, total, err := s.repo.Operation.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		result = append(result, dto.OperationResponse{
			Username:  op.Username,
			Role:      op.Role,
			Badge:     op.Badge,
			StartDate: op.StartDate,
			EndDate:   op.EndDate,
		})
	}
	return result, total, nil
}

// ── internal helpers ──

// appendHistory writes the coarse rotation history row. Informational only;
// a failure is logged and does not fail the ledger write.
func (s *rosterService) appendHistory(ctx context.Context, employee *model.Employee, startDate, endDate string) {
	op := &model.Operation{
		Username:  employee.Name,
		Role:      employee.Role,
		Badge:     employee.Badge,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := s.repo.Operation.Append(ctx, op); err != nil {
		s.logger.Warn("append rotation history failed", zap.Error(err))
	}
}

func (s *rosterService) audit(ctx context.Context, actor Identity, actionType, detail string) {
	entry := &model.AuditLog{
		Username:   actor.Username,
		Source:     actor.Source,
		ActionType: actionType,
		Detail:     detail,
	}
	if err := s.repo.Audit.Append(ctx, entry); err != nil {
		s.logger.Warn("append audit entry failed", zap.Error(err))
	}
}

// syncMirror pushes a range write into the spreadsheet mirror. Best-effort:
// mirror trouble is logged, the ledger stays authoritative. Returns whether
// the mirror was saved. A fresh workbook has no date columns, so every date
// is skipped until a template provides them.
func (s *rosterService) syncMirror(employee *model.Employee, start, end time.Time, status string) bool {
	path := s.cfg.Roster.WorkbookPath
	if path == "" {
		return false
	}

	m, err := sheet.LoadOrCreate(path, s.cfg.Roster.SheetName)
	if err != nil {
		s.logger.Warn("open mirror workbook failed", zap.String("path", path), zap.Error(err))
		return false
	}
	defer m.Close()

	row, found := m.LocateRow(employee.Badge, employee.Name)
	if !found {
		row, err = m.AppendRow(employee.Source, employee.Role, employee.Name, employee.Badge)
		if err != nil {
			s.logger.Warn("append mirror row failed", zap.Error(err))
			return false
		}
	}

	if err := m.WriteRange(row, start, end, status); err != nil {
		s.logger.Warn("mirror range write failed", zap.Error(err))
		return false
	}
	if err := m.Save(); err != nil {
		s.logger.Warn("save mirror workbook failed", zap.Error(err))
		return false
	}
	return true
}
