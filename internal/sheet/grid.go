package sheet

import (
	"time"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

// Grid is a read-only snapshot of the mirror used for previews and timeline
// derivation.
type Grid struct {
	// Rows holds one entry per employee row.
	Rows []GridRow
	// Dates are the grid's date columns in chronological order. They define
	// the observable domain for edge detection: a transition can only be
	// detected when both the day and its neighbor have a column.
	Dates []time.Time
}

// GridRow is one employee row with its per-date status cells.
type GridRow struct {
	Team  string
	Role  string
	Name  string
	Badge string
	// Cells maps YYYY-MM-DD to the raw cell text; blank cells are omitted.
	Cells map[string]string
}

// ReadGrid snapshots every employee row and date cell.
func (m *Mirror) ReadGrid() (*Grid, error) {
	grid := &Grid{}
	for _, dc := range m.dateCols {
		grid.Dates = append(grid.Dates, dc.Date)
	}

	for row := 2; row <= m.lastRow; row++ {
		team, role, name, badge := m.PrefixValues(row)
		if name == "" && badge == "" {
			continue
		}
		gr := GridRow{
			Team:  team,
			Role:  role,
			Name:  name,
			Badge: badge,
			Cells: make(map[string]string),
		}
		for _, dc := range m.dateCols {
			if v := m.cellValue(dc.Col, row); v != "" {
				gr.Cells[dc.Date.Format(model.DateLayout)] = v
			}
		}
		grid.Rows = append(grid.Rows, gr)
	}

	return grid, nil
}

// Conflict is a non-blank cell found in a targeted write range.
type Conflict struct {
	Date  time.Time `json:"date"`
	Value string    `json:"value"`
}

// FindConflicts reports, in date order, the cells in [startDate, endDate]
// that already hold a non-blank value for the employee located by badge then
// name. A missing row or all-blank cells means no conflict. Read-only.
func (m *Mirror) FindConflicts(badge, name string, startDate, endDate time.Time) []Conflict {
	row, ok := m.LocateRow(badge, name)
	if !ok {
		return nil
	}

	var conflicts []Conflict
	for _, dc := range m.dateCols {
		if dc.Date.Before(startDate) || dc.Date.After(endDate) {
			continue
		}
		if v := m.cellValue(dc.Col, row); v != "" {
			conflicts = append(conflicts, Conflict{Date: dc.Date, Value: v})
		}
	}
	return conflicts
}
