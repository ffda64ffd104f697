package repository

import (
	"context"

	"gorm.io/gorm"

	"stageflow/internal/model"
)

// AccountRepository is the accounts data access interface.
// Email lookups are case-insensitive.
type AccountRepository interface {
	Create(ctx context.Context, acc *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Update(ctx context.Context, acc *model.Account) error
}

// accountRepo is the GORM implementation of AccountRepository.
type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo creates an AccountRepository.
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, acc *model.Account) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var acc model.Account
	err := r.db.WithContext(ctx).
		Where("account_id = ?", id).
		First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var acc model.Account
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) Update(ctx context.Context, acc *model.Account) error {
	return r.db.WithContext(ctx).Save(acc).Error
}
