package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	"github.com/joseggch15/inboundoutbound-sub000/internal/sheet"
)

// ── travel module errors ──

var (
	// ErrTravelNoData the window holds no status transitions at all. A
	// distinct outcome, kept separate from real failures.
	ErrTravelNoData       = errors.New("no travel events in the requested window")
	ErrReportGenerateFail = errors.New("generate report workbook failed")
)

// Check-in/check-out clock times by shift. A night-shift worker arrives at
// noon and leaves the morning after the last night; a day-shift worker
// arrives in the morning and leaves at noon.
const (
	checkInDay    = "06:00:00"
	checkInNight  = "12:00:00"
	checkOutDay   = "12:00:00"
	checkOutNight = "06:00:00"
)

// Travel directions.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// TravelService derives transportation events from status transitions in the
// duty timeline and renders the transport request report.
type TravelService interface {
	// Derive scans the ledger for every employee of the source and emits
	// check-ins/check-outs over the inclusive window. Empty lists are a
	// valid no-data result.
	Derive(ctx context.Context, source, startDate, endDate string) (*dto.TravelReportResponse, error)
	// DeriveFromGrid derives from a mirror snapshot instead of the ledger.
	DeriveFromGrid(grid *sheet.Grid, startDate, endDate string) (*dto.TravelReportResponse, error)
	// BuildReport renders the two-table IN/OUT workbook for download.
	BuildReport(ctx context.Context, source, startDate, endDate string) (*bytes.Buffer, string, error)
	// RotationCalendar emits an iCalendar feed of one employee's contiguous
	// on-site blocks inside the window.
	RotationCalendar(ctx context.Context, source, badge, startDate, endDate string) (string, error)
}

type travelService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTravelService creates the TravelService.
func NewTravelService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TravelService {
	return &travelService{cfg: cfg, repo: repo, logger: logger}
}

// ── timeline ──

// timeline is a per-employee status sequence over an observable domain. An
// edge is only detectable when both the day and its immediate neighbor are
// inside the domain; for ledger input the domain is the whole reporting
// window (absent days read as OFF), for grid input it is the set of date
// columns the template actually has.
type timeline struct {
	statuses map[string]string
	domain   map[string]bool
}

func (t timeline) observable(d time.Time) bool {
	return t.domain[d.Format(model.DateLayout)]
}

// on is a case-insensitive "ON" substring match so suffixed shift labels in
// hand-edited sheets still count as on-site days. OFF never matches.
func (t timeline) on(d time.Time) bool {
	s := strings.ToUpper(strings.TrimSpace(t.statuses[d.Format(model.DateLayout)]))
	return strings.Contains(s, "ON")
}

func (t timeline) night(d time.Time) bool {
	s := strings.ToUpper(strings.TrimSpace(t.statuses[d.Format(model.DateLayout)]))
	return strings.Contains(s, "NS")
}

type travelEvent struct {
	name       string
	department string
	badge      string
	company    string
	date       time.Time
	clock      string
	direction  string
}

// deriveEvents runs edge detection over one timeline.
//
// OFF→ON (or absent→ON) is a check-in dated at the first ON day; ON→OFF (or
// ON→absent) is a check-out dated at the last ON day. The clock time follows
// the shift of the event's own day.
func deriveEvents(name, department, badge, company string, tl timeline, start, end time.Time) []travelEvent {
	var events []travelEvent

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !tl.observable(d) || !tl.on(d) {
			continue
		}

		prev := d.AddDate(0, 0, -1)
		if tl.observable(prev) && !tl.on(prev) {
			clock := checkInDay
			if tl.night(d) {
				clock = checkInNight
			}
			events = append(events, travelEvent{
				name: name, department: department, badge: badge, company: company,
				date: d, clock: clock, direction: DirectionIn,
			})
		}

		next := d.AddDate(0, 0, 1)
		if tl.observable(next) && !tl.on(next) {
			clock := checkOutDay
			if tl.night(d) {
				clock = checkOutNight
			}
			events = append(events, travelEvent{
				name: name, department: department, badge: badge, company: company,
				date: d, clock: clock, direction: DirectionOut,
			})
		}
	}

	return events
}

// finishEvents deduplicates, sorts by (department, name, date) and splits
// into the two report lists.
func finishEvents(events []travelEvent) *dto.TravelReportResponse {
	seen := make(map[string]bool, len(events))
	deduped := events[:0]
	for _, e := range events {
		key := e.direction + "|" + e.badge + "|" + e.date.Format(model.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, e)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].department != deduped[j].department {
			return deduped[i].department < deduped[j].department
		}
		if deduped[i].name != deduped[j].name {
			return deduped[i].name < deduped[j].name
		}
		return deduped[i].date.Before(deduped[j].date)
	})

	resp := &dto.TravelReportResponse{
		Arrivals:   []dto.TravelEventResponse{},
		Departures: []dto.TravelEventResponse{},
	}
	for _, e := range deduped {
		out := dto.TravelEventResponse{
			Name:       e.name,
			Department: e.department,
			Badge:      e.badge,
			Company:    e.company,
			Date:       e.date.Format(model.DateLayout),
			Time:       e.clock,
			Direction:  e.direction,
		}
		if e.direction == DirectionIn {
			resp.Arrivals = append(resp.Arrivals, out)
		} else {
			resp.Departures = append(resp.Departures, out)
		}
	}
	return resp
}

// windowDomain marks every day of [start, end] observable.
func windowDomain(start, end time.Time) map[string]bool {
	domain := make(map[string]bool)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		domain[d.Format(model.DateLayout)] = true
	}
	return domain
}

// ────────────────────── Derive ──────────────────────

func (s *travelService) Derive(ctx context.Context, source, startDate, endDate string) (*dto.TravelReportResponse, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.ListBySource(ctx, source)
	if err != nil {
		s.logger.Error("list employees failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	domain := windowDomain(start, end)
	var events []travelEvent

	for _, emp := range employees {
		records, err := s.repo.Duty.ListRange(ctx, emp.Badge, source, startDate, endDate)
		if err != nil {
			s.logger.Error("read duty range failed", zap.String("badge", emp.Badge), zap.Error(err))
			return nil, err
		}
		if len(records) == 0 {
			continue
		}

		tl := timeline{statuses: make(map[string]string, len(records)), domain: domain}
		for _, r := range records {
			tl.statuses[r.Date] = r.Status
		}

		events = append(events, deriveEvents(emp.Name, emp.Role, emp.Badge, emp.Source, tl, start, end)...)
	}

	return finishEvents(events), nil
}

// ────────────────────── DeriveFromGrid ──────────────────────

func (s *travelService) DeriveFromGrid(grid *sheet.Grid, startDate, endDate string) (*dto.TravelReportResponse, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	// the grid's header columns are the observable domain
	domain := make(map[string]bool, len(grid.Dates))
	for _, d := range grid.Dates {
		domain[d.Format(model.DateLayout)] = true
	}

	var events []travelEvent
	for _, row := range grid.Rows {
		tl := timeline{statuses: row.Cells, domain: domain}
		events = append(events, deriveEvents(row.Name, row.Role, row.Badge, row.Team, tl, start, end)...)
	}

	return finishEvents(events), nil
}

// ────────────────────── BuildReport ──────────────────────

// reportColumns is the layout of each of the two tables. The seventh header
// differs: FROM on the IN table, TO on the OUT table.
var reportColumns = []string{"#", "NAME", "FIRST NAME", "GID", "COMPANY", "DEPT", "", "DATE", "TIME"}

const outTableOffset = 10 // OUT table starts at column K

func (s *travelService) BuildReport(ctx context.Context, source, startDate, endDate string) (*bytes.Buffer, string, error) {
	derived, err := s.Derive(ctx, source, startDate, endDate)
	if err != nil {
		return nil, "", err
	}
	if len(derived.Arrivals) == 0 && len(derived.Departures) == 0 {
		return nil, "", ErrTravelNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "TRANSPORT"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrReportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	title := fmt.Sprintf("%s TRANSPORT REQUEST %s - %s", s.cfg.Report.Site, startDate, endDate)
	f.SetCellValue(sheetName, "A1", title)
	endTitle, _ := excelize.CoordinatesToCellName(outTableOffset+len(reportColumns)-1, 1)
	f.MergeCell(sheetName, "A1", endTitle)

	s.writeReportTable(f, sheetName, 1, DirectionIn, derived.Arrivals, headerStyle)
	s.writeReportTable(f, sheetName, outTableOffset, DirectionOut, derived.Departures, headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write report workbook failed", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("transport_%s_%s_%s.xlsx", source, startDate, endDate)
	return buf, filename, nil
}

func (s *travelService) writeReportTable(f *excelize.File, sheetName string, startCol int, direction string, events []dto.TravelEventResponse, headerStyle int) {
	// table label row
	labelCell, _ := excelize.CoordinatesToCellName(startCol, 2)
	labelEnd, _ := excelize.CoordinatesToCellName(startCol+len(reportColumns)-1, 2)
	f.SetCellValue(sheetName, labelCell, direction)
	f.MergeCell(sheetName, labelCell, labelEnd)
	f.SetCellStyle(sheetName, labelCell, labelEnd, headerStyle)

	// column header row
	for i, col := range reportColumns {
		text := col
		if text == "" {
			if direction == DirectionIn {
				text = "FROM"
			} else {
				text = "TO"
			}
		}
		cell, _ := excelize.CoordinatesToCellName(startCol+i, 3)
		f.SetCellValue(sheetName, cell, text)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// data rows
	for n, e := range events {
		last, first := splitName(e.Name)
		values := []interface{}{
			n + 1, last, first, e.Badge, e.Company, e.Department, s.cfg.Report.City, e.Date, e.Time,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(startCol+i, 4+n)
			f.SetCellValue(sheetName, cell, v)
		}
	}
}

// splitName splits on the first comma into (last, first); otherwise the last
// whitespace-delimited token is the surname.
func splitName(name string) (last, first string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	fields := strings.Fields(name)
	if len(fields) <= 1 {
		return name, ""
	}
	return fields[len(fields)-1], strings.Join(fields[:len(fields)-1], " ")
}

// ────────────────────── RotationCalendar ──────────────────────

func (s *travelService) RotationCalendar(ctx context.Context, source, badge, startDate, endDate string) (string, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return "", err
	}

	employee, err := s.repo.Employee.GetByBadge(ctx, badge, source)
	if err != nil {
		return "", ErrRosterEmployeeNotFound
	}

	records, err := s.repo.Duty.ListRange(ctx, badge, source, startDate, endDate)
	if err != nil {
		return "", err
	}

	tl := timeline{statuses: make(map[string]string, len(records)), domain: windowDomain(start, end)}
	for _, r := range records {
		tl.statuses[r.Date] = r.Status
	}

	// collect contiguous on-site blocks
	type block struct{ first, last time.Time }
	var blocks []block
	var open *block
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if tl.on(d) {
			if open == nil {
				open = &block{first: d, last: d}
			} else {
				open.last = d
			}
			continue
		}
		if open != nil {
			blocks = append(blocks, *open)
			open = nil
		}
	}
	if open != nil {
		blocks = append(blocks, *open)
	}
	if len(blocks) == 0 {
		return "", ErrTravelNoData
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	now := time.Now()

	for i, b := range blocks {
		uid := fmt.Sprintf("%s-%s-%d@inboundoutbound", badge, b.first.Format("20060102"), i)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(b.first)
		// iCalendar all-day DTEND is exclusive
		event.SetAllDayEndAt(b.last.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s on rotation (%s)", employee.Name, s.cfg.Report.Site))
		event.SetDescription(fmt.Sprintf("badge=%s source=%s", badge, source))
	}

	return cal.Serialize(), nil
}
