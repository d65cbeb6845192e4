package dto

// ── plan bridge DTOs ──

// WriteCellsRequest direct mirror write over a date range. Status "CLEAR"
// erases text and fill ("do not mark days"); it is not the same as OFF.
type WriteCellsRequest struct {
	Badge     string `json:"badge"      binding:"required"`
	Name      string `json:"name"       binding:"omitempty"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Status    string `json:"status"     binding:"required"`
}

// ConflictRequest pre-write conflict scan parameters.
type ConflictRequest struct {
	Badge     string `form:"badge"      binding:"required"`
	Name      string `form:"name"       binding:"omitempty"`
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date"   binding:"required"`
}

// ConflictCell one already-populated cell in the targeted range.
type ConflictCell struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// ConflictResponse empty Conflicts means no conflict: either the row does
// not exist yet or every targeted cell is blank.
type ConflictResponse struct {
	Conflicts []ConflictCell `json:"conflicts"`
}

// ExportPlanResponse ledger-to-mirror export outcome.
type ExportPlanResponse struct {
	RowsWritten  int `json:"rows_written"`
	CellsWritten int `json:"cells_written"`
	CellsDropped int `json:"cells_dropped"` // dates outside the template's columns
}

// ImportPlanResponse mirror-to-ledger import outcome.
type ImportPlanResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // rows without a badge, unrecognized cells
}

// GridRowResponse one mirror row in a preview snapshot.
type GridRowResponse struct {
	Team  string            `json:"team,omitempty"`
	Role  string            `json:"role"`
	Name  string            `json:"name"`
	Badge string            `json:"badge"`
	Cells map[string]string `json:"cells"`
}

// GridResponse mirror preview snapshot.
type GridResponse struct {
	Dates []string          `json:"dates"`
	Rows  []GridRowResponse `json:"rows"`
}
