package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository backed by db.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	row := User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Employee:     u.Employee,
		PasswordHash: u.PasswordHash,
		TOTPSecret:   u.TOTPSecret,
		CreatedAt:    u.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row User
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return domainUser(&row), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row User
	result := r.db.WithContext(ctx).First(&row, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return domainUser(&row), nil
}

func domainUser(row *User) *domain.User {
	return &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		Employee:     row.Employee,
		PasswordHash: row.PasswordHash,
		TOTPSecret:   row.TOTPSecret,
		CreatedAt:    row.CreatedAt,
	}
}

type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository returns a GrantRepository backed by db.
func NewGrantRepository(db *gorm.DB) repository.GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) Create(ctx context.Context, g *domain.Grant) error {
	row := Grant{
		ID:        g.ID,
		UserID:    g.UserID,
		Amount:    g.Amount,
		CreatedAt: g.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *grantRepository) TotalGranted(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	result := r.db.WithContext(ctx).Model(&Grant{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return total, nil
}
