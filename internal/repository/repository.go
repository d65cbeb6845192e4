package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	Employee  EmployeeRepository
	Duty      DutyRepository
	Operation OperationRepository
	Audit     AuditRepository
	Account   AccountRepository

	db *gorm.DB
}

// NewRepository wires the gorm-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:  NewEmployeeRepo(db),
		Duty:      NewDutyRepo(db),
		Operation: NewOperationRepo(db),
		Audit:     NewAuditRepo(db),
		Account:   NewAccountRepo(db),
		db:        db,
	}
}

// BeginTx opens a transaction for multi-write operations (bulk import).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
