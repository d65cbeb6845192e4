// Package sheet reads and writes the schedule mirror artifact: an xlsx grid
// with one row per employee, fixed prefix columns, and one column per
// calendar date. Cell text and fill color always agree; the color is a pure
// function of the status token.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

var (
	// ErrArtifactMissing the workbook file does not exist.
	ErrArtifactMissing = errors.New("schedule workbook not found")
	// ErrMalformedArtifact the workbook lacks required header columns or
	// cannot be read. No auto-repair is attempted.
	ErrMalformedArtifact = errors.New("schedule workbook is malformed")
)

// Fixed prefix header labels, in the order a fresh workbook gets them.
const (
	HeaderTeam  = "TEAM"
	HeaderRole  = "ROLE"
	HeaderName  = "NAME"
	HeaderBadge = "BADGE"
)

// StatusClear is the explicit erase token: empty text, no fill. Distinct
// from OFF, which keeps its red fill.
const StatusClear = ""

// Fill colors keyed to status text.
const (
	fillOn      = "00B050"
	fillOnNight = "FFFF00"
	fillOff     = "FF0000"
)

// headerDateLayouts are the renderings excelize produces for date-formatted
// header cells, plus the plain forms a hand-edited template may carry.
var headerDateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"02/01/2006",
	"2-Jan-06",
	"02.01.2006",
}

// DateColumn is one date-typed header column.
type DateColumn struct {
	Date time.Time
	Col  int // 1-based worksheet column
}

// Mirror is an open schedule workbook.
type Mirror struct {
	f     *excelize.File
	path  string
	sheet string

	labelCols map[string]int // prefix label -> 1-based column
	dateCols  []DateColumn   // sorted chronologically
	lastRow   int            // last populated worksheet row (>= 1, the header)

	styleCache map[string]int
}

// Load opens an existing workbook. A missing file returns ErrArtifactMissing
// so the caller can choose the empty-read or fresh-write path.
func Load(path, sheetName string) (*Mirror, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ErrArtifactMissing
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}

	m := &Mirror{f: f, path: path, sheet: sheetName, styleCache: make(map[string]int)}
	if err := m.parseHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

// New creates a fresh workbook holding only the fixed prefix headers. Such a
// file has no date columns, so range writes on it skip every date until a
// template with date columns replaces it.
func New(path, sheetName string) (*Mirror, error) {
	f := excelize.NewFile()
	if sheetName != "Sheet1" {
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			return nil, err
		}
		f.SetActiveSheet(idx)
		f.DeleteSheet("Sheet1")
	}

	labels := []string{HeaderTeam, HeaderRole, HeaderName, HeaderBadge}
	labelCols := make(map[string]int, len(labels))
	for i, label := range labels {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return nil, err
		}
		labelCols[label] = i + 1
	}

	return &Mirror{
		f:          f,
		path:       path,
		sheet:      sheetName,
		labelCols:  labelCols,
		lastRow:    1,
		styleCache: make(map[string]int),
	}, nil
}

// LoadOrCreate opens the workbook, creating a fresh one when missing.
func LoadOrCreate(path, sheetName string) (*Mirror, error) {
	m, err := Load(path, sheetName)
	if errors.Is(err, ErrArtifactMissing) {
		return New(path, sheetName)
	}
	return m, err
}

// Close releases the underlying file handle without saving.
func (m *Mirror) Close() error {
	return m.f.Close()
}

// Save persists the whole workbook back to its path.
func (m *Mirror) Save() error {
	return m.f.SaveAs(m.path)
}

// parseHeader indexes row 1: text labels and date columns, the latter sorted
// chronologically regardless of their order in the template.
func (m *Mirror) parseHeader() error {
	rows, err := m.f.GetRows(m.sheet)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: worksheet %q has no header row", ErrMalformedArtifact, m.sheet)
	}

	m.labelCols = make(map[string]int)
	m.dateCols = nil

	for i, cell := range rows[0] {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		upper := strings.ToUpper(text)
		switch upper {
		case HeaderTeam, HeaderRole, HeaderName, HeaderBadge:
			m.labelCols[upper] = i + 1
			continue
		}
		if d, ok := parseHeaderDate(text); ok {
			m.dateCols = append(m.dateCols, DateColumn{Date: d, Col: i + 1})
		}
	}

	for _, required := range []string{HeaderName, HeaderRole, HeaderBadge} {
		if _, ok := m.labelCols[required]; !ok {
			return fmt.Errorf("%w: missing required header column %s", ErrMalformedArtifact, required)
		}
	}

	sort.Slice(m.dateCols, func(i, j int) bool {
		return m.dateCols[i].Date.Before(m.dateCols[j].Date)
	})

	m.lastRow = len(rows)
	return nil
}

func parseHeaderDate(text string) (time.Time, bool) {
	for _, layout := range headerDateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

// DateColumns returns the date-typed header columns, sorted chronologically.
func (m *Mirror) DateColumns() []DateColumn {
	return m.dateCols
}

// ColForDate returns the worksheet column holding a calendar date, if any.
func (m *Mirror) ColForDate(d time.Time) (int, bool) {
	key := d.Format(model.DateLayout)
	for _, dc := range m.dateCols {
		if dc.Date.Format(model.DateLayout) == key {
			return dc.Col, true
		}
	}
	return 0, false
}

// LocateRow finds an employee's row: badge match first, then trimmed
// case-insensitive name. Returns (row, true) or (0, false).
func (m *Mirror) LocateRow(badge, name string) (int, bool) {
	badge = strings.TrimSpace(badge)
	name = strings.TrimSpace(name)

	badgeCol := m.labelCols[HeaderBadge]
	nameCol := m.labelCols[HeaderName]

	if badge != "" {
		for row := 2; row <= m.lastRow; row++ {
			if strings.TrimSpace(m.cellValue(badgeCol, row)) == badge {
				return row, true
			}
		}
	}
	if name != "" {
		for row := 2; row <= m.lastRow; row++ {
			if strings.EqualFold(strings.TrimSpace(m.cellValue(nameCol, row)), name) {
				return row, true
			}
		}
	}
	return 0, false
}

// AppendRow adds an employee row at the next free index and returns it.
func (m *Mirror) AppendRow(team, role, name, badge string) (int, error) {
	row := m.lastRow + 1

	cells := map[string]string{
		HeaderTeam:  team,
		HeaderRole:  role,
		HeaderName:  name,
		HeaderBadge: badge,
	}
	for label, value := range cells {
		col, ok := m.labelCols[label]
		if !ok {
			continue // template without a TEAM column
		}
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if err := m.f.SetCellValue(m.sheet, cell, value); err != nil {
			return 0, err
		}
	}

	m.lastRow = row
	return row, nil
}

// WriteRange sets status text and matching fill on every date in
// [startDate, endDate] that has a header column; dates the template does not
// cover are silently skipped. StatusClear erases text and fill.
func (m *Mirror) WriteRange(row int, startDate, endDate time.Time, status string) error {
	for _, dc := range m.dateCols {
		if dc.Date.Before(startDate) || dc.Date.After(endDate) {
			continue
		}
		if err := m.writeCell(dc.Col, row, status); err != nil {
			return err
		}
	}
	return nil
}

// WriteDate sets a single date cell, skipping silently when the template has
// no column for it.
func (m *Mirror) WriteDate(row int, date time.Time, status string) error {
	col, ok := m.ColForDate(date)
	if !ok {
		return nil
	}
	return m.writeCell(col, row, status)
}

func (m *Mirror) writeCell(col, row int, status string) error {
	cell, _ := excelize.CoordinatesToCellName(col, row)

	if status == StatusClear {
		if err := m.f.SetCellValue(m.sheet, cell, ""); err != nil {
			return err
		}
		// style 0 is the workbook default: no fill
		return m.f.SetCellStyle(m.sheet, cell, cell, 0)
	}

	if err := m.f.SetCellValue(m.sheet, cell, status); err != nil {
		return err
	}
	styleID, err := m.fillStyle(fillForStatus(status))
	if err != nil {
		return err
	}
	return m.f.SetCellStyle(m.sheet, cell, cell, styleID)
}

// fillForStatus maps status text to its fill. Anything that is not OFF or
// "ON NS" gets the green ON fill; the export path relies on this permissive
// fallback.
func fillForStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case model.StatusOff:
		return fillOff
	case model.StatusOnNight:
		return fillOnNight
	default:
		return fillOn
	}
}

func (m *Mirror) fillStyle(color string) (int, error) {
	if id, ok := m.styleCache[color]; ok {
		return id, nil
	}
	id, err := m.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, err
	}
	m.styleCache[color] = id
	return id, nil
}

func (m *Mirror) cellValue(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	v, _ := m.f.GetCellValue(m.sheet, cell)
	return v
}

// CellForDate reads the raw text of one date cell in a row.
func (m *Mirror) CellForDate(row int, date time.Time) (string, bool) {
	col, ok := m.ColForDate(date)
	if !ok {
		return "", false
	}
	return m.cellValue(col, row), true
}

// PrefixValues reads the prefix-column values of a row.
func (m *Mirror) PrefixValues(row int) (team, role, name, badge string) {
	if col, ok := m.labelCols[HeaderTeam]; ok {
		team = strings.TrimSpace(m.cellValue(col, row))
	}
	role = strings.TrimSpace(m.cellValue(m.labelCols[HeaderRole], row))
	name = strings.TrimSpace(m.cellValue(m.labelCols[HeaderName], row))
	badge = strings.TrimSpace(m.cellValue(m.labelCols[HeaderBadge], row))
	return
}

// LastRow returns the last populated worksheet row.
func (m *Mirror) LastRow() int { return m.lastRow }
