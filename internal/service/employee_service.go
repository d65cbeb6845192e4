package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
)

// ── employee module errors ──

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrBadgeExists wrapped with the colliding badge so the message names
	// it for the operator.
	ErrBadgeExists = errors.New("badge already registered in this source")
)

// EmployeeService manages the user registry that the ledger keys into.
type EmployeeService interface {
	Register(ctx context.Context, actor Identity, req *dto.RegisterEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByBadge(ctx context.Context, source, badge string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, source string) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, actor Identity, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, actor Identity, id string) error
	// ParseImportFile reads a bulk-import spreadsheet with flexible header
	// order into rows; validation happens in ImportEmployees.
	ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error)
	// ImportEmployees validates every row first, then creates the valid
	// ones inside one transaction.
	ImportEmployees(ctx context.Context, actor Identity, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error)
}

// ImportEmployeeRow one parsed bulk-import line.
type ImportEmployeeRow struct {
	Row   int
	Name  string
	Role  string
	Badge string
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService creates the EmployeeService.
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *employeeService) Register(ctx context.Context, actor Identity, req *dto.RegisterEmployeeRequest) (*dto.EmployeeResponse, error) {
	// badge uniqueness is per source; the existing record stays untouched
	if _, err := s.repo.Employee.GetByBadge(ctx, req.Badge, actor.Source); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBadgeExists, req.Badge)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	employee := &model.Employee{
		Name:   strings.TrimSpace(req.Name),
		Role:   strings.TrimSpace(req.Role),
		Badge:  strings.TrimSpace(req.Badge),
		Source: actor.Source,
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		s.logger.Error("create employee failed", zap.String("badge", req.Badge), zap.Error(err))
		return nil, err
	}

	s.audit(ctx, actor, "REGISTER_EMPLOYEE",
		fmt.Sprintf("badge=%s name=%s", employee.Badge, employee.Name))

	return toEmployeeResponse(employee), nil
}

// ────────────────────── GetByBadge ──────────────────────

func (s *employeeService) GetByBadge(ctx context.Context, source, badge string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByBadge(ctx, badge, source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, source string) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.Employee.ListBySource(ctx, source)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *toEmployeeResponse(&employees[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, actor Identity, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.Badge != nil && *req.Badge != employee.Badge {
		// the new badge must not collide inside the source
		existing, err := s.repo.Employee.GetByBadge(ctx, *req.Badge, employee.Source)
		if err == nil && existing.ID != id {
			return nil, fmt.Errorf("%w: %s", ErrBadgeExists, *req.Badge)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		employee.Badge = strings.TrimSpace(*req.Badge)
	}
	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		employee.Role = strings.TrimSpace(*req.Role)
	}

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("update employee failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.audit(ctx, actor, "UPDATE_EMPLOYEE",
		fmt.Sprintf("badge=%s name=%s", employee.Badge, employee.Name))

	return toEmployeeResponse(employee), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, actor Identity, id string) error {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	if err := s.repo.Employee.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("id", id), zap.Error(err))
		return err
	}

	// the ledger rows of a removed employee go with them
	if _, err := s.repo.Duty.DeleteByBadge(ctx, employee.Badge, employee.Source); err != nil {
		s.logger.Warn("delete ledger rows failed", zap.String("badge", employee.Badge), zap.Error(err))
	}

	s.audit(ctx, actor, "DELETE_EMPLOYEE",
		fmt.Sprintf("badge=%s name=%s", employee.Badge, employee.Name))

	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("spreadsheet has no data rows (row 1 is the header)")
	ErrImportTooManyRows = fmt.Errorf("spreadsheet exceeds the %d row import limit", maxImportRows)
	ErrImportBadHeader   = errors.New("spreadsheet header is missing a required column (NAME/BADGE)")
)

func (s *employeeService) ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseImportHeader(excelRows[0])
	if colIndex["name"] < 0 || colIndex["badge"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportEmployeeRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportEmployeeRow{Row: i + 1}

		if idx := colIndex["name"]; idx < len(row) {
			item.Name = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["role"]; idx >= 0 && idx < len(row) {
			item.Role = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["badge"]; idx < len(row) {
			item.Badge = strings.TrimSpace(row[idx])
		}

		// skip entirely blank lines
		if item.Name == "" && item.Role == "" && item.Badge == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseImportHeader tolerates heterogeneous spreadsheet layouts: columns may
// appear in any order under a few accepted spellings.
func parseImportHeader(header []string) map[string]int {
	idx := map[string]int{
		"name":  -1,
		"role":  -1,
		"badge": -1,
	}
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "NAME", "FULL NAME", "EMPLOYEE":
			idx["name"] = i
		case "ROLE", "POSITION", "DEPT", "DEPARTMENT":
			idx["role"] = i
		case "BADGE", "GID", "ID", "BADGE NO":
			idx["badge"] = i
		}
	}
	return idx
}

// ────────────────────── ImportEmployees ──────────────────────

func (s *employeeService) ImportEmployees(ctx context.Context, actor Identity, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error) {
	resp := &dto.ImportEmployeeResponse{Total: len(rows)}

	// phase one: validate without touching the database for writes
	var validRows []ImportEmployeeRow
	seenBadges := make(map[string]bool)

	for _, row := range rows {
		if row.Name == "" || row.Badge == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportEmployeeError{
				Row: row.Row, Reason: "required field missing (name/badge)",
			})
			continue
		}

		if seenBadges[row.Badge] {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportEmployeeError{
				Row: row.Row, Reason: fmt.Sprintf("badge duplicated in file: %s", row.Badge),
			})
			continue
		}
		seenBadges[row.Badge] = true

		if _, err := s.repo.Employee.GetByBadge(ctx, row.Badge, actor.Source); err == nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportEmployeeError{
				Row: row.Row, Reason: fmt.Sprintf("badge already registered: %s", row.Badge),
			})
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		validRows = append(validRows, row)
	}

	// phase two: create every valid row in one transaction
	if len(validRows) > 0 {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			s.logger.Error("begin import transaction failed", zap.Error(err))
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()

		txRepo := s.repo.WithTx(tx)

		for _, row := range validRows {
			employee := &model.Employee{
				Name:   row.Name,
				Role:   row.Role,
				Badge:  row.Badge,
				Source: actor.Source,
			}
			if err := txRepo.Employee.Create(ctx, employee); err != nil {
				tx.Rollback()
				s.logger.Error("import row write failed, rolled back",
					zap.Int("row", row.Row), zap.Error(err))
				return nil, fmt.Errorf("row %d failed to write, the whole import was rolled back: %w", row.Row, err)
			}
			resp.Success++
		}

		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit import transaction failed", zap.Error(err))
			return nil, err
		}
	}

	s.audit(ctx, actor, "IMPORT_EMPLOYEES",
		fmt.Sprintf("total=%d success=%d failed=%d", resp.Total, resp.Success, resp.Failed))

	return resp, nil
}

// ── internal helpers ──

func toEmployeeResponse(e *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:     e.ID,
		Name:   e.Name,
		Role:   e.Role,
		Badge:  e.Badge,
		Source: e.Source,
	}
}

func (s *employeeService) audit(ctx context.Context, actor Identity, actionType, detail string) {
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
