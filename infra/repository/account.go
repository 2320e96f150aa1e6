// Package repository provides the GORM-backed implementations of the
// persistence interfaces in pkg/repository.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/repository"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns an AccountRepository backed by db. The db must
// be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	var rows []Account
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	accounts := make([]domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = domain.Account{
			ID:        row.ID,
			UserID:    row.UserID,
			Nickname:  row.Nickname,
			Address:   row.Address,
			CreatedAt: row.CreatedAt,
		}
	}
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	row := Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Nickname:  a.Nickname,
		Address:   a.Address,
		CreatedAt: a.CreatedAt,
	}
	result := r.db.WithContext(ctx).Create(&row)
	if result.Error == nil {
		return nil
	}
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		// A concurrent create won the unique index race. Report the same
		// field errors a pre-checked duplicate would have produced.
		return r.duplicateFieldErrors(ctx, a)
	}
	return result.Error
}

// duplicateFieldErrors inspects which of the two per-user constraints the
// insert collided with and maps it onto the form field.
func (r *accountRepository) duplicateFieldErrors(ctx context.Context, a *domain.Account) error {
	var verrs domain.ValidationErrors
	if exists, err := r.NicknameExists(ctx, a.UserID, a.Nickname); err == nil && exists {
		verrs.Add("nickname", "Nickname is already in use")
	}
	if exists, err := r.AddressExists(ctx, a.UserID, a.Address); err == nil && exists {
		verrs.Add("address", "Address is already in use")
	}
	if len(verrs) == 0 {
		// The winning row disappeared between the insert and the lookup;
		// still a duplicate-key failure.
		verrs.Add("nickname", "Nickname is already in use")
	}
	return verrs
}

func (r *accountRepository) NicknameExists(ctx context.Context, userID uuid.UUID, nickname string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ? AND nickname = ?", userID, nickname).
		Count(&count)
	return count > 0, result.Error
}

func (r *accountRepository) AddressExists(ctx context.Context, userID uuid.UUID, address string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ? AND address = ?", userID, address).
		Count(&count)
	return count > 0, result.Error
}

func (r *accountRepository) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", accountID, userID).
		Delete(&Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
