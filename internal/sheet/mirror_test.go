package sheet

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// writeTemplate produces a workbook whose header row holds the prefix labels
// plus the given date columns, in the given order.
func writeTemplate(t *testing.T, path, sheetName string, dates []string) {
	t.Helper()
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{HeaderTeam, HeaderRole, HeaderName, HeaderBadge}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	for i, d := range dates {
		cell, _ := excelize.CoordinatesToCellName(len(headers)+1+i, 1)
		f.SetCellValue(sheetName, cell, d)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save template: %v", err)
	}
	f.Close()
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), "PLAN")
	if !errors.Is(err, ErrArtifactMissing) {
		t.Fatalf("err = %v, want ErrArtifactMissing", err)
	}
}

func TestLoadRejectsMissingRequiredHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "NAME")
	f.SetCellValue("Sheet1", "B1", "ROLE")
	// no BADGE column
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.Close()

	_, err := Load(path, "Sheet1")
	if !errors.Is(err, ErrMalformedArtifact) {
		t.Fatalf("err = %v, want ErrMalformedArtifact", err)
	}
}

func TestNewWorkbookHasNoDateColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	m, err := New(path, "PLAN")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(m.DateColumns()) != 0 {
		t.Fatalf("fresh workbook has %d date columns", len(m.DateColumns()))
	}

	// a range write on a dateless template is a clean no-op
	row, err := m.AppendRow("RGM", "Ops", "KWAME", "ID00001")
	if err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := m.WriteRange(row, day(t, "2024-01-10"), day(t, "2024-01-20"), model.StatusOn); err != nil {
		t.Fatalf("WriteRange on dateless template: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.Close()

	// the saved file loads back with its prefix headers intact
	m2, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer m2.Close()
	if _, ok := m2.LocateRow("ID00001", ""); !ok {
		t.Fatal("appended row lost on reload")
	}
}

func TestDateColumnsSortedRegardlessOfTemplateOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-12", "2024-01-10", "2024-01-11"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()

	cols := m.DateColumns()
	if len(cols) != 3 {
		t.Fatalf("date columns = %d, want 3", len(cols))
	}
	for i := 1; i < len(cols); i++ {
		if !cols[i-1].Date.Before(cols[i].Date) {
			t.Fatalf("date columns out of order at %d: %v then %v", i, cols[i-1].Date, cols[i].Date)
		}
	}
	// the worksheet column of 2024-01-10 is the template's second date cell
	if col, ok := m.ColForDate(day(t, "2024-01-10")); !ok || col != 6 {
		t.Fatalf("ColForDate(2024-01-10) = %d,%v, want 6,true", col, ok)
	}
}

func TestLocateRowBadgeBeforeName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-10"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()

	rowA, _ := m.AppendRow("RGM", "Ops", "KWAME MENSAH", "ID00001")
	rowB, _ := m.AppendRow("RGM", "Ops", "AMA OWUSU", "ID00002")

	if row, ok := m.LocateRow("ID00002", "KWAME MENSAH"); !ok || row != rowB {
		t.Fatalf("badge match = %d,%v, want %d (badge wins over name)", row, ok, rowB)
	}
	if row, ok := m.LocateRow("", "kwame mensah "); !ok || row != rowA {
		t.Fatalf("name match = %d,%v, want %d (case-insensitive, trimmed)", row, ok, rowA)
	}
	if _, ok := m.LocateRow("NOPE", "NOBODY"); ok {
		t.Fatal("matched a row that does not exist")
	}
}

func TestWriteRangeClearVersusOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-10", "2024-01-11", "2024-01-12"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	row, _ := m.AppendRow("RGM", "Ops", "KWAME", "ID00001")

	if err := m.WriteRange(row, day(t, "2024-01-10"), day(t, "2024-01-12"), model.StatusOn); err != nil {
		t.Fatalf("WriteRange ON: %v", err)
	}
	if err := m.WriteDate(row, day(t, "2024-01-11"), model.StatusOff); err != nil {
		t.Fatalf("WriteDate OFF: %v", err)
	}
	if err := m.WriteDate(row, day(t, "2024-01-12"), StatusClear); err != nil {
		t.Fatalf("WriteDate clear: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.Close()

	m2, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer m2.Close()
	row2, ok := m2.LocateRow("ID00001", "")
	if !ok {
		t.Fatal("row not found after reload")
	}

	// OFF keeps its text; clear leaves an empty cell. They are not the same.
	if v, _ := m2.CellForDate(row2, day(t, "2024-01-10")); v != model.StatusOn {
		t.Fatalf("cell 10th = %q, want ON", v)
	}
	if v, _ := m2.CellForDate(row2, day(t, "2024-01-11")); v != model.StatusOff {
		t.Fatalf("cell 11th = %q, want OFF", v)
	}
	if v, _ := m2.CellForDate(row2, day(t, "2024-01-12")); v != "" {
		t.Fatalf("cleared cell holds %q", v)
	}
}

func TestWriteRangeSkipsUncoveredDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-10", "2024-01-11"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()
	row, _ := m.AppendRow("RGM", "Ops", "KWAME", "ID00001")

	// the range reaches past the template's last column
	if err := m.WriteRange(row, day(t, "2024-01-10"), day(t, "2024-01-20"), model.StatusOn); err != nil {
		t.Fatalf("WriteRange: %v", err)
	}

	if v, _ := m.CellForDate(row, day(t, "2024-01-11")); v != model.StatusOn {
		t.Fatalf("covered cell = %q, want ON", v)
	}
	if _, ok := m.ColForDate(day(t, "2024-01-15")); ok {
		t.Fatal("template unexpectedly covers 2024-01-15")
	}
}

func TestFillForStatusPermissiveFallback(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{model.StatusOff, fillOff},
		{"off", fillOff},
		{model.StatusOnNight, fillOnNight},
		{" on ns ", fillOnNight},
		{model.StatusOn, fillOn},
		{"anything else", fillOn}, // unknown labels render as on-site green
	}
	for _, tc := range cases {
		if got := fillForStatus(tc.status); got != tc.want {
			t.Errorf("fillForStatus(%q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestReadGridSkipsBlankRowsAndCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-10", "2024-01-11"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()

	row, _ := m.AppendRow("RGM", "Ops", "KWAME", "ID00001")
	if err := m.WriteDate(row, day(t, "2024-01-10"), model.StatusOn); err != nil {
		t.Fatalf("WriteDate: %v", err)
	}

	grid, err := m.ReadGrid()
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(grid.Rows))
	}
	gr := grid.Rows[0]
	if gr.Badge != "ID00001" || gr.Team != "RGM" {
		t.Fatalf("row = %+v", gr)
	}
	if len(gr.Cells) != 1 {
		t.Fatalf("cells = %d, want 1 (blank cells omitted)", len(gr.Cells))
	}
	if gr.Cells["2024-01-10"] != model.StatusOn {
		t.Fatalf("cell = %q", gr.Cells["2024-01-10"])
	}
}

func TestFindConflictsIsReadOnlyAndOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	writeTemplate(t, path, "PLAN", []string{"2024-01-12", "2024-01-10", "2024-01-11"})

	m, err := Load(path, "PLAN")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close()

	row, _ := m.AppendRow("RGM", "Ops", "KWAME", "ID00001")
	m.WriteDate(row, day(t, "2024-01-12"), model.StatusOff)
	m.WriteDate(row, day(t, "2024-01-10"), model.StatusOn)

	conflicts := m.FindConflicts("ID00001", "", day(t, "2024-01-10"), day(t, "2024-01-12"))
	if len(conflicts) != 2 {
		t.Fatalf("conflicts = %d, want 2", len(conflicts))
	}
	// date order, not template column order
	if !conflicts[0].Date.Before(conflicts[1].Date) {
		t.Fatalf("conflicts out of date order: %v then %v", conflicts[0].Date, conflicts[1].Date)
	}
	if conflicts[0].Value != model.StatusOn || conflicts[1].Value != model.StatusOff {
		t.Fatalf("conflict values = %q, %q", conflicts[0].Value, conflicts[1].Value)
	}

	// a missing row reports no conflicts
	if got := m.FindConflicts("NOPE", "", day(t, "2024-01-10"), day(t, "2024-01-12")); len(got) != 0 {
		t.Fatalf("missing row conflicts = %d, want 0", len(got))
	}
}
