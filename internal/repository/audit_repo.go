package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

// AuditRepository append-only audit sink.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error)
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo creates the gorm-backed AuditRepository.
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Append(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) List(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	var entries []model.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("ts DESC").
		Find(&entries).Error
	return entries, total, err
}
