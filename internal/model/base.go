package model

import "time"

// BaseModel shared timestamp columns.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DateLayout is the canonical ledger date form (schedules.date column).
const DateLayout = "2006-01-02"
