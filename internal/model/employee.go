package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee maps to the users table. Badge is the scheduling key, unique within a source
// (the organization tag partitioning tenants, e.g. "RGM", "Newmont").
type Employee struct {
	ID     string `gorm:"type:text;primaryKey"       json:"id"`
	Name   string `gorm:"type:text;not null"         json:"name"`
	Role   string `gorm:"type:text;not null;default:''" json:"role"`
	Badge  string `gorm:"type:text;not null;uniqueIndex:idx_users_badge_source" json:"badge"`
	Source string `gorm:"type:text;not null;uniqueIndex:idx_users_badge_source" json:"source"`
	BaseModel
}

// TableName maps to the users table.
func (Employee) TableName() string { return "users" }

// BeforeCreate fills the primary key; sqlite has no server-side uuid default.
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
