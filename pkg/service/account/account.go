// Package account provides business logic for a user's saved destination
// accounts: listing, validated creation, and owner-scoped deletion. A
// successful creation by a non-employee user additionally fires a detached
// best-effort notification (see dispatcher.go).
package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/internal/metrics"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/eth"
	"github.com/ognlabs/token-transfer/pkg/repository"
)

// Notifier receives the post-creation side effect. Implementations must
// contain their own failures; the account service never looks at the outcome.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Notification carries everything the dispatcher needs to register the new
// account externally.
type Notification struct {
	Email      string
	Name       string
	EthAddress string
	IP         string
}

// Service implements the account store operations.
type Service struct {
	accounts repository.AccountRepository
	users    repository.UserRepository
	notifier Notifier
	logger   *slog.Logger
}

// New creates an account service. notifier may be nil, in which case the
// side effect is skipped entirely.
func New(
	accounts repository.AccountRepository,
	users repository.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the user's accounts in creation order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// Create validates and stores a new destination account. On validation
// failure it returns domain.ValidationErrors with at most one message per
// field. Creation is atomic: either the row exists with both uniqueness
// constraints upheld, or nothing was stored.
//
// The external notification only starts once the row is committed, and its
// outcome never propagates back: a state change that failed must not notify,
// and a notification that fails must not roll anything back.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, nickname, address, requestIP string) (*domain.Account, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var verrs domain.ValidationErrors
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		verrs.Add("nickname", "Nickname is required")
	} else if exists, err := s.accounts.NicknameExists(ctx, userID, nickname); err != nil {
		return nil, err
	} else if exists {
		verrs.Add("nickname", "Nickname is already in use")
	}
	if err := eth.ValidateAddress(address); err != nil {
		verrs.Add("address", "Not a valid Ethereum address")
	} else if exists, err := s.accounts.AddressExists(ctx, userID, address); err != nil {
		return nil, err
	} else if exists {
		verrs.Add("address", "Address is already in use")
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	a := domain.NewAccount(userID, nickname, address)
	if err := s.accounts.Create(ctx, a); err != nil {
		// A concurrent duplicate may have won the unique-index race, in
		// which case the store reports field errors for the loser.
		return nil, err
	}
	metrics.AccountsCreated.Inc()
	s.logger.Info("user added account",
		"email", u.Email, "nickname", a.Nickname, "address", a.Address)

	if s.notifier != nil && !u.Employee {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		// Detached from the request lifecycle. Completion order relative to
		// the HTTP response is unspecified.
		go s.notifier.Notify(context.WithoutCancel(ctx), Notification{
			Email:      u.Email,
			Name:       name,
			EthAddress: a.Address,
			IP:         requestIP,
		})
	}
	return a, nil
}

// Delete removes an account owned by the user. Deleting someone else's
// account, or one that never existed, is domain.ErrNotFound either way.
func (s *Service) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	if err := s.accounts.Delete(ctx, userID, accountID); err != nil {
		return err
	}
	s.logger.Info("user removed account", "userID", userID, "accountID", accountID)
	return nil
}
