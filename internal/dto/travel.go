package dto

// ── travel report DTOs ──

// TravelReportRequest reporting window, inclusive.
type TravelReportRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date"   binding:"required"`
}

// TravelEventResponse one derived check-in or check-out.
type TravelEventResponse struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Badge      string `json:"badge"`
	Company    string `json:"company"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Direction  string `json:"direction"` // IN | OUT
}

// TravelReportResponse arrivals and departures, already sorted for layout.
type TravelReportResponse struct {
	Arrivals   []TravelEventResponse `json:"arrivals"`
	Departures []TravelEventResponse `json:"departures"`
}
