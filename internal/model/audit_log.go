package model

import "time"

// AuditLog maps to the audit_log table. The services emit (action_type, detail) pairs;
// this sink just persists them with the acting identity.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string    `gorm:"type:text;not null" json:"username"`
	Source     string    `gorm:"type:text;not null" json:"source"`
	ActionType string    `gorm:"type:text;not null" json:"action_type"`
	Detail     string    `gorm:"type:text;not null;default:''" json:"detail"`
	Ts         time.Time `gorm:"column:ts;not null;default:CURRENT_TIMESTAMP" json:"ts"`
}

// TableName maps to the audit_log table.
func (AuditLog) TableName() string { return "audit_log" }
