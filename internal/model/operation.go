package model

import "time"

// Operation maps to the operations table. Append-only human-readable rotation history
// written on registration and range actions. Never consulted by conflict
// detection or travel derivation.
type Operation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:text;not null" json:"username"`
	Role      string    `gorm:"type:text;not null;default:''" json:"role"`
	Badge     string    `gorm:"type:text;not null" json:"badge"`
	StartDate string    `gorm:"type:text;not null" json:"start_date"`
	EndDate   string    `gorm:"type:text;not null" json:"end_date"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName maps to the operations table.
func (Operation) TableName() string { return "operations" }
