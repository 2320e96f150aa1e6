package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// outstandingStatuses are the statuses that still count against a user's
// available balance.
var outstandingStatuses = []string{
	string(domain.TransferCreated),
	string(domain.TransferWaitingEmailConf),
	string(domain.TransferConfirmed),
}

type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository returns a TransferRepository backed by db.
func NewTransferRepository(db *gorm.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, t *domain.TransferRequest) error {
	row := transferRow(t)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *transferRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TransferRequest, error) {
	var rows []Transfer
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	transfers := make([]domain.TransferRequest, len(rows))
	for i := range rows {
		transfers[i] = *domainTransfer(&rows[i])
	}
	return transfers, nil
}

func (r *transferRepository) GetByTokenHash(ctx context.Context, hash string) (*domain.TransferRequest, error) {
	var row Transfer
	result := r.db.WithContext(ctx).
		Where("confirm_token_hash = ?", hash).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return domainTransfer(&row), nil
}

// UpdateStatus performs a status-guarded transition. Concurrent callers race
// on the WHERE clause; exactly one observes RowsAffected == 1.
func (r *transferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TransferStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Transfer{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *transferRepository) OutstandingTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	result := r.db.WithContext(ctx).Model(&Transfer{}).
		Where("user_id = ? AND status IN ?", userID, outstandingStatuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return total, nil
}

func (r *transferRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Transfer{}).
		Where("status IN ? AND confirm_expires_at < ?",
			[]string{string(domain.TransferCreated), string(domain.TransferWaitingEmailConf)}, now).
		Update("status", string(domain.TransferExpired))
	return result.RowsAffected, result.Error
}

func transferRow(t *domain.TransferRequest) Transfer {
	return Transfer{
		ID:               t.ID,
		UserID:           t.UserID,
		Address:          t.Address,
		Amount:           t.Amount,
		Status:           string(t.Status),
		TOTPVerifiedAt:   t.TOTPVerifiedAt,
		ConfirmTokenHash: t.ConfirmTokenHash,
		ConfirmExpiresAt: t.ConfirmExpiresAt,
		CreatedAt:        t.CreatedAt,
	}
}

func domainTransfer(row *Transfer) *domain.TransferRequest {
	return &domain.TransferRequest{
		ID:               row.ID,
		UserID:           row.UserID,
		Address:          row.Address,
		Amount:           row.Amount,
		Status:           domain.TransferStatus(row.Status),
		TOTPVerifiedAt:   row.TOTPVerifiedAt,
		ConfirmTokenHash: row.ConfirmTokenHash,
		ConfirmExpiresAt: row.ConfirmExpiresAt,
		CreatedAt:        row.CreatedAt,
	}
}
