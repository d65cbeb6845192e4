package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account maps to the accounts table. Operator credentials for the login surface. The
// scheduling core trusts the source tag this row supplies.
type Account struct {
	ID           string `gorm:"type:text;primaryKey" json:"id"`
	Username     string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         string `gorm:"type:text;not null;default:'admin'" json:"role"`
	Source       string `gorm:"type:text;not null" json:"source"`
	BaseModel
}

// TableName maps to the accounts table.
func (Account) TableName() string { return "accounts" }

// BeforeCreate fills the primary key.
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
