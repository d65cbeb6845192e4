package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

// AccountRepository operator credential access.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo creates the gorm-backed AccountRepository.
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
