package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Duty status tokens, exactly as stored and as written into mirror cells.
const (
	StatusOn      = "ON"
	StatusOnNight = "ON NS"
	StatusOff     = "OFF"
)

// Shift labels. Meaningful only for ON/ON NS records.
const (
	ShiftDay   = "Day Shift"
	ShiftNight = "Night Shift"
)

// ValidStatus reports membership in the ledger's strict status set.
func ValidStatus(s string) bool {
	return s == StatusOn || s == StatusOnNight || s == StatusOff
}

// ShiftForStatus derives the shift label a status implies.
func ShiftForStatus(status string) string {
	switch status {
	case StatusOnNight:
		return ShiftNight
	case StatusOn:
		return ShiftDay
	default:
		return ""
	}
}

// DutyRecord maps to the schedules table. One row per (badge, date, source); a write
// for an existing key replaces status/shift_type rather than duplicating.
type DutyRecord struct {
	ID        string `gorm:"type:text;primaryKey" json:"id"`
	Badge     string `gorm:"type:text;not null;uniqueIndex:idx_schedules_key" json:"badge"`
	Date      string `gorm:"type:text;not null;uniqueIndex:idx_schedules_key" json:"date"` // YYYY-MM-DD
	Status    string `gorm:"type:text;not null" json:"status"`
	ShiftType string `gorm:"type:text;not null;default:''" json:"shift_type"`
	Source    string `gorm:"type:text;not null;uniqueIndex:idx_schedules_key" json:"source"`
	BaseModel
}

// TableName maps to the schedules table.
func (DutyRecord) TableName() string { return "schedules" }

// BeforeCreate fills the primary key.
func (r *DutyRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
