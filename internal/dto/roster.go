package dto

// ── duty ledger DTOs ──

// MarkRangeRequest writes one status over an inclusive date range.
type MarkRangeRequest struct {
	Badge     string `json:"badge"      binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Status    string `json:"status"     binding:"required"`
	// ShiftType is derived from status when empty.
	ShiftType string `json:"shift_type" binding:"omitempty"`
}

// MarkRangeResponse range write outcome. DaysWritten can be lower than the
// range length when a storage failure interrupts the write; completed days
// stay committed.
type MarkRangeResponse struct {
	DaysWritten  int  `json:"days_written"`
	MirrorSynced bool `json:"mirror_synced"`
}

// ClearRangeRequest removes ledger records over an inclusive range.
type ClearRangeRequest struct {
	Badge     string `json:"badge"      binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// ClearRangeResponse range delete outcome; zero deletions is not an error.
type ClearRangeResponse struct {
	DaysDeleted  int  `json:"days_deleted"`
	MirrorSynced bool `json:"mirror_synced"`
}

// DayStatus the ledger's value for one recorded day.
type DayStatus struct {
	Status    string `json:"status"`
	ShiftType string `json:"shift_type,omitempty"`
}

// DutyRecordResponse one ledger row.
type DutyRecordResponse struct {
	Badge     string `json:"badge"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	ShiftType string `json:"shift_type,omitempty"`
	Source    string `json:"source"`
}

// OperationResponse one rotation history row.
type OperationResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Badge     string `json:"badge"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
