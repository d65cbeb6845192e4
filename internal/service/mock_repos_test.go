package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
)

// In-memory repository doubles for the service tests. Each mock keeps the
// semantics the gorm implementations promise: record-not-found, per-source
// badge uniqueness, upsert-by-key on the ledger.

// ── employees ──

type mockEmployeeRepo struct {
	byID map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{byID: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	for _, existing := range m.byID {
		if existing.Badge == e.Badge && existing.Source == e.Source {
			return fmt.Errorf("UNIQUE constraint failed: users.badge, users.source")
		}
	}
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEmployeeRepo) GetByBadge(_ context.Context, badge, source string) (*model.Employee, error) {
	for _, e := range m.byID {
		if e.Badge == badge && e.Source == source {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	if _, ok := m.byID[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockEmployeeRepo) ListBySource(_ context.Context, source string) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range m.byID {
		if e.Source == source {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── duty ledger ──

type mockDutyRepo struct {
	records map[string]*model.DutyRecord // badge|date|source

	// failOnDate, when set, makes the Upsert for that date fail. Exercises
	// the partial-write contract of multi-day ranges.
	failOnDate string
}

func newMockDutyRepo() *mockDutyRepo {
	return &mockDutyRepo{records: make(map[string]*model.DutyRecord)}
}

func dutyKey(badge, date, source string) string {
	return badge + "|" + date + "|" + source
}

func (m *mockDutyRepo) Upsert(_ context.Context, r *model.DutyRecord) error {
	if m.failOnDate != "" && r.Date == m.failOnDate {
		return fmt.Errorf("database is locked")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	cp := *r
	m.records[dutyKey(r.Badge, r.Date, r.Source)] = &cp
	return nil
}

func (m *mockDutyRepo) DeleteRange(_ context.Context, badge, source, startDate, endDate string) (int64, error) {
	var n int64
	for key, r := range m.records {
		if r.Badge == badge && r.Source == source && r.Date >= startDate && r.Date <= endDate {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

func (m *mockDutyRepo) ListRange(_ context.Context, badge, source, startDate, endDate string) ([]model.DutyRecord, error) {
	var out []model.DutyRecord
	for _, r := range m.records {
		if r.Badge == badge && r.Source == source && r.Date >= startDate && r.Date <= endDate {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *mockDutyRepo) ListBySource(_ context.Context, source string) ([]model.DutyRecord, error) {
	var out []model.DutyRecord
	for _, r := range m.records {
		if r.Source == source {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *mockDutyRepo) DeleteByBadge(_ context.Context, badge, source string) (int64, error) {
	var n int64
	for key, r := range m.records {
		if r.Badge == badge && r.Source == source {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

// ── rotation history ──

type mockOperationRepo struct {
	ops []model.Operation
}

func (m *mockOperationRepo) Append(_ context.Context, op *model.Operation) error {
	m.ops = append(m.ops, *op)
	return nil
}

func (m *mockOperationRepo) List(_ context.Context, offset, limit int) ([]model.Operation, int64, error) {
	total := int64(len(m.ops))
	if offset >= len(m.ops) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.ops) {
		end = len(m.ops)
	}
	return m.ops[offset:end], total, nil
}

// ── audit sink ──

type mockAuditRepo struct {
	entries []model.AuditLog
}

func (m *mockAuditRepo) Append(_ context.Context, entry *model.AuditLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	total := int64(len(m.entries))
	if offset >= len(m.entries) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return m.entries[offset:end], total, nil
}

func (m *mockAuditRepo) hasAction(actionType string) bool {
	for _, e := range m.entries {
		if e.ActionType == actionType {
			return true
		}
	}
	return false
}

// ── accounts ──

type mockAccountRepo struct {
	byUsername map[string]*model.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byUsername: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, a *model.Account) error {
	if _, ok := m.byUsername[a.Username]; ok {
		return fmt.Errorf("UNIQUE constraint failed: accounts.username")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	cp := *a
	m.byUsername[a.Username] = &cp
	return nil
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	a, ok := m.byUsername[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) Update(_ context.Context, a *model.Account) error {
	if _, ok := m.byUsername[a.Username]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *a
	m.byUsername[a.Username] = &cp
	return nil
}

// ── fixtures ──

type testRepos struct {
	repo     *repository.Repository
	employee *mockEmployeeRepo
	duty     *mockDutyRepo
	ops      *mockOperationRepo
	audit    *mockAuditRepo
	account  *mockAccountRepo
}

func newTestRepos() *testRepos {
	employee := newMockEmployeeRepo()
	duty := newMockDutyRepo()
	ops := &mockOperationRepo{}
	audit := &mockAuditRepo{}
	account := newMockAccountRepo()
	return &testRepos{
		repo: &repository.Repository{
			Employee:  employee,
			Duty:      duty,
			Operation: ops,
			Audit:     audit,
			Account:   account,
		},
		employee: employee,
		duty:     duty,
		ops:      ops,
		audit:    audit,
		account:  account,
	}
}

// newTestConfig has no workbook path so the mirror sync path is skipped unless
// a test sets one.
func newTestConfig() *config.Config {
	return &config.Config{
		Roster: config.RosterConfig{SheetName: "PLAN"},
		Report: config.ReportConfig{City: "ACCRA", Site: "SITE"},
	}
}

func seedEmployee(t *testRepos, name, role, badge, source string) {
	_ = t.employee.Create(context.Background(), &model.Employee{
		Name: name, Role: role, Badge: badge, Source: source,
	})
}

func seedDuty(t *testRepos, badge, date, status, source string) {
	_ = t.duty.Upsert(context.Background(), &model.DutyRecord{
		Badge: badge, Date: date, Status: status,
		ShiftType: model.ShiftForStatus(status), Source: source,
	})
}

// seedDutyRange fills [startDate, endDate] with one status.
func seedDutyRange(t *testRepos, badge, startDate, endDate, status, source string) {
	start := mustDate(startDate)
	end := mustDate(endDate)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		seedDuty(t, badge, d.Format(model.DateLayout), status, source)
	}
}

func mustDate(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
