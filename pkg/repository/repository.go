// Package repository defines the persistence interfaces consumed by the
// services. The GORM implementations live in infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository stores a user's saved destination accounts.
type AccountRepository interface {
	// ListByUser returns the user's accounts in creation order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	// Create inserts an account. Per-user nickname and address uniqueness is
	// enforced by the store's constraints; a duplicate surfaces as
	// domain.ValidationErrors so concurrent duplicate submissions race safely
	// to a single winner.
	Create(ctx context.Context, a *domain.Account) error
	// NicknameExists reports whether the user already has an account with
	// this nickname.
	NicknameExists(ctx context.Context, userID uuid.UUID, nickname string) (bool, error)
	// AddressExists reports whether the user already has an account with
	// this address.
	AddressExists(ctx context.Context, userID uuid.UUID, address string) (bool, error)
	// Delete removes the account if it exists and is owned by the user;
	// otherwise domain.ErrNotFound.
	Delete(ctx context.Context, userID, accountID uuid.UUID) error
}

// TransferRepository stores withdrawal requests.
type TransferRepository interface {
	Create(ctx context.Context, t *domain.TransferRequest) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TransferRequest, error)
	// GetByTokenHash looks a request up by its confirmation token hash;
	// domain.ErrNotFound if no request carries the hash.
	GetByTokenHash(ctx context.Context, hash string) (*domain.TransferRequest, error)
	// UpdateStatus transitions a request from one status to another. The
	// update is guarded on the current status so concurrent confirmations and
	// expiry sweeps resolve atomically; it reports whether this caller won
	// the transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TransferStatus) (bool, error)
	// OutstandingTotal sums the amounts of the user's requests that still
	// count against the balance.
	OutstandingTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	// ExpireStale moves every request still waiting on a confirmation past
	// its expiry to Expired, returning how many rows moved.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// UserRepository stores account holders.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// GrantRepository stores vested token grants.
type GrantRepository interface {
	Create(ctx context.Context, g *domain.Grant) error
	// TotalGranted sums the user's grants.
	TotalGranted(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}
