package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

// OperationRepository append-only rotation history.
type OperationRepository interface {
	Append(ctx context.Context, op *model.Operation) error
	List(ctx context.Context, offset, limit int) ([]model.Operation, int64, error)
}

type operationRepo struct {
	db *gorm.DB
}

// NewOperationRepo creates the gorm-backed OperationRepository.
func NewOperationRepo(db *gorm.DB) OperationRepository {
	return &operationRepo{db: db}
}

func (r *operationRepo) Append(ctx context.Context, op *model.Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *operationRepo) List(ctx context.Context, offset, limit int) ([]model.Operation, int64, error) {
	var ops []model.Operation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Operation{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&ops).Error
	return ops, total, err
}
