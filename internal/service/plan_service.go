package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	"github.com/joseggch15/inboundoutbound-sub000/internal/sheet"
)

// ── plan bridge errors ──

var (
	ErrPlanNoWorkbook = errors.New("no schedule workbook configured")
	// ErrPlanStatusClearOnly direct cell writes accept the ledger statuses
	// plus the CLEAR erase token, nothing else.
	ErrPlanBadStatus = errors.New("status must be ON, ON NS, OFF or CLEAR")
)

// clearToken is the request-level spelling of the erase path.
const clearToken = "CLEAR"

// PlanService is the bidirectional bridge between the duty ledger and the
// spreadsheet mirror, plus the pre-write conflict scan.
type PlanService interface {
	// Export writes the whole ledger of a source into the template
	// workbook, preserving its layout; records whose date has no template
	// column are silently dropped.
	Export(ctx context.Context, actor Identity) (*dto.ExportPlanResponse, error)
	// Import reads the workbook back into ledger-shaped records and
	// upserts them. Rows without a badge are skipped entirely; a missing
	// artifact imports nothing rather than failing.
	Import(ctx context.Context, actor Identity) (*dto.ImportPlanResponse, error)
	// WriteCells is the UI's direct mirror write, including the CLEAR
	// erase path ("do not mark days").
	WriteCells(ctx context.Context, actor Identity, req *dto.WriteCellsRequest) error
	// Conflicts reports which targeted cells already hold a value. Never
	// mutates the artifact.
	Conflicts(ctx context.Context, req *dto.ConflictRequest) (*dto.ConflictResponse, error)
	// Grid snapshots the mirror for preview; a missing artifact yields an
	// empty snapshot rather than an error.
	Grid(ctx context.Context) (*dto.GridResponse, error)
	// TimelineGrid loads the raw mirror grid for sheet-sourced travel
	// derivation. A missing artifact reads as an empty grid.
	TimelineGrid() (*sheet.Grid, error)
}

type planService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanService creates the PlanService.
func NewPlanService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{cfg: cfg, repo: repo, logger: logger}
}

func (s *planService) workbookPath() (string, error) {
	if s.cfg.Roster.WorkbookPath == "" {
		return "", ErrPlanNoWorkbook
	}
	return s.cfg.Roster.WorkbookPath, nil
}

// ────────────────────── Export ──────────────────────

func (s *planService) Export(ctx context.Context, actor Identity) (*dto.ExportPlanResponse, error) {
	path, err := s.workbookPath()
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.ListBySource(ctx, actor.Source)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Duty.ListBySource(ctx, actor.Source)
	if err != nil {
		return nil, err
	}

	recordsByBadge := make(map[string][]model.DutyRecord)
	for _, r := range records {
		recordsByBadge[r.Badge] = append(recordsByBadge[r.Badge], r)
	}

	m, err := sheet.LoadOrCreate(path, s.cfg.Roster.SheetName)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	resp := &dto.ExportPlanResponse{}
	for _, emp := range employees {
		empRecords := recordsByBadge[emp.Badge]
		if len(empRecords) == 0 {
			continue
		}

		row, found := m.LocateRow(emp.Badge, emp.Name)
		if !found {
			row, err = m.AppendRow(emp.Source, emp.Role, emp.Name, emp.Badge)
			if err != nil {
				return nil, err
			}
		}
		resp.RowsWritten++

		for _, r := range empRecords {
			date, err := time.Parse(model.DateLayout, r.Date)
			if err != nil {
				continue
			}
			if _, ok := m.ColForDate(date); !ok {
				resp.CellsDropped++ // template does not cover this date
				continue
			}
			// WriteDate applies the permissive fill fallback: OFF red,
			// ON NS yellow, anything else green ON.
			if err := m.WriteDate(row, date, r.Status); err != nil {
				return nil, err
			}
			resp.CellsWritten++
		}
	}

	if err := m.Save(); err != nil {
		return nil, err
	}

	s.logger.Info("plan exported",
		zap.String("source", actor.Source),
		zap.Int("rows", resp.RowsWritten),
		zap.Int("cells", resp.CellsWritten),
		zap.Int("dropped", resp.CellsDropped))

	return resp, nil
}

// ────────────────────── Import ──────────────────────

func (s *planService) Import(ctx context.Context, actor Identity) (*dto.ImportPlanResponse, error) {
	path, err := s.workbookPath()
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportPlanResponse{}

	m, err := sheet.Load(path, s.cfg.Roster.SheetName)
	if errors.Is(err, sheet.ErrArtifactMissing) {
		return resp, nil // nothing to import
	}
	if err != nil {
		return nil, err
	}
	defer m.Close()

	grid, err := m.ReadGrid()
	if err != nil {
		return nil, err
	}

	for _, row := range grid.Rows {
		// the ledger key is badge-based; a name-only row would be
		// ambiguous, so it is skipped entirely
		if row.Badge == "" {
			resp.Skipped++
			continue
		}

		for dateKey, raw := range row.Cells {
			status := strings.ToUpper(strings.TrimSpace(raw))
			if !model.ValidStatus(status) {
				resp.Skipped++
				continue
			}
			record := &model.DutyRecord{
				Badge:     row.Badge,
				Date:      dateKey,
				Status:    status,
				ShiftType: model.ShiftForStatus(status),
				Source:    actor.Source,
			}
			if err := s.repo.Duty.Upsert(ctx, record); err != nil {
				s.logger.Error("import upsert failed",
					zap.String("badge", row.Badge), zap.String("date", dateKey), zap.Error(err))
				return resp, err
			}
			resp.Imported++
		}
	}

	s.audit(ctx, actor, "IMPORT_PLAN",
		fmt.Sprintf("imported=%d skipped=%d", resp.Imported, resp.Skipped))

	return resp, nil
}

// ────────────────────── WriteCells ──────────────────────

func (s *planService) WriteCells(ctx context.Context, actor Identity, req *dto.WriteCellsRequest) error {
	path, err := s.workbookPath()
	if err != nil {
		return err
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == clearToken {
		status = sheet.StatusClear
	} else if !model.ValidStatus(status) {
		return ErrPlanBadStatus
	}

	m, err := sheet.LoadOrCreate(path, s.cfg.Roster.SheetName)
	if err != nil {
		return err
	}
	defer m.Close()

	row, found := m.LocateRow(req.Badge, req.Name)
	if !found {
		// prefer registry data for the new row's prefix columns
		name, role := req.Name, ""
		if emp, err := s.repo.Employee.GetByBadge(ctx, req.Badge, actor.Source); err == nil {
			name, role = emp.Name, emp.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row, err = m.AppendRow(actor.Source, role, name, req.Badge)
		if err != nil {
			return err
		}
	}

	if err := m.WriteRange(row, start, end, status); err != nil {
		return err
	}
	if err := m.Save(); err != nil {
		return err
	}

	s.audit(ctx, actor, "WRITE_CELLS",
		fmt.Sprintf("badge=%s %s..%s status=%q", req.Badge, req.StartDate, req.EndDate, req.Status))

	return nil
}

// ────────────────────── Conflicts ──────────────────────

func (s *planService) Conflicts(ctx context.Context, req *dto.ConflictRequest) (*dto.ConflictResponse, error) {
	path, err := s.workbookPath()
	if err != nil {
		return nil, err
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConflictResponse{Conflicts: []dto.ConflictCell{}}

	m, err := sheet.Load(path, s.cfg.Roster.SheetName)
	if errors.Is(err, sheet.ErrArtifactMissing) {
		return resp, nil // nothing to conflict with
	}
	if err != nil {
		return nil, err
	}
	defer m.Close()

	for _, c := range m.FindConflicts(req.Badge, req.Name, start, end) {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictCell{
			Date:  c.Date.Format(model.DateLayout),
			Value: c.Value,
		})
	}
	return resp, nil
}

// ────────────────────── Grid ──────────────────────

func (s *planService) Grid(ctx context.Context) (*dto.GridResponse, error) {
	path, err := s.workbookPath()
	if err != nil {
		return nil, err
	}

	resp := &dto.GridResponse{Dates: []string{}, Rows: []dto.GridRowResponse{}}

	m, err := sheet.Load(path, s.cfg.Roster.SheetName)
	if errors.Is(err, sheet.ErrArtifactMissing) {
		return resp, nil // missing artifact reads as empty
	}
	if err != nil {
		return nil, err
	}
	defer m.Close()

	grid, err := m.ReadGrid()
	if err != nil {
		return nil, err
	}

	for _, d := range grid.Dates {
		resp.Dates = append(resp.Dates, d.Format(model.DateLayout))
	}
	for _, row := range grid.Rows {
		resp.Rows = append(resp.Rows, dto.GridRowResponse{
			Team:  row.Team,
			Role:  row.Role,
			Name:  row.Name,
			Badge: row.Badge,
			Cells: row.Cells,
		})
	}
	return resp, nil
}

// ── internal helpers ──

func (s *planService) audit(ctx context.Context, actor Identity, actionType, detail string) {
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

// TimelineGrid loads the mirror grid for sheet-sourced travel derivation.
func (s *planService) TimelineGrid() (*sheet.Grid, error) {
	path, err := s.workbookPath()
	if err != nil {
		return nil, err
	}
	m, err := sheet.Load(path, s.cfg.Roster.SheetName)
	if errors.Is(err, sheet.ErrArtifactMissing) {
		return &sheet.Grid{}, nil // missing artifact reads as empty
	}
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return m.ReadGrid()
}
