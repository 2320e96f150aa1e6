// Package transfer implements the withdrawal request controller: balance and
// second-factor checks on submission, the time-boxed email confirmation
// protocol, and the expiry sweep.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/internal/metrics"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/eth"
	"github.com/ognlabs/token-transfer/pkg/repository"
	"github.com/pquerna/otp/totp"
	"github.com/shopspring/decimal"
)

// CodeVerifier checks a second-factor code against a user's secret.
type CodeVerifier interface {
	Verify(code, secret string) bool
}

// TOTPVerifier verifies standard time-based one-time codes.
type TOTPVerifier struct{}

func (TOTPVerifier) Verify(code, secret string) bool {
	return totp.Validate(code, secret)
}

// ConfirmationMailer delivers the confirmation link for a pending transfer.
type ConfirmationMailer interface {
	SendTransferConfirmation(ctx context.Context, to string, amount decimal.Decimal, link string) error
}

// Broadcaster hands a confirmed transfer to the on-chain collaborator.
// Broadcasting itself is outside this service's scope.
type Broadcaster interface {
	Broadcast(ctx context.Context, t *domain.TransferRequest) error
}

// Service implements transfer submission and confirmation.
type Service struct {
	transfers  repository.TransferRepository
	grants     repository.GrantRepository
	users      repository.UserRepository
	verifier   CodeVerifier
	mailer     ConfirmationMailer
	broadcast  Broadcaster
	confirmURL string
	logger     *slog.Logger
}

// New creates a transfer service. confirmURL is the public base URL the raw
// confirmation token is appended to.
func New(
	transfers repository.TransferRepository,
	grants repository.GrantRepository,
	users repository.UserRepository,
	verifier CodeVerifier,
	mailer ConfirmationMailer,
	broadcast Broadcaster,
	confirmURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		transfers:  transfers,
		grants:     grants,
		users:      users,
		verifier:   verifier,
		mailer:     mailer,
		broadcast:  broadcast,
		confirmURL: confirmURL,
		logger:     logger,
	}
}

// Available returns the user's spendable balance: total granted minus the
// amounts of transfers still outstanding.
func (s *Service) Available(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	granted, err := s.grants.TotalGranted(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	outstanding, err := s.transfers.OutstandingTotal(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return granted.Sub(outstanding), nil
}

// List returns the user's transfer requests in creation order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.TransferRequest, error) {
	return s.transfers.ListByUser(ctx, userID)
}

// Submit runs the withdrawal request protocol: re-validate the amount against
// a fresh balance read, verify the second-factor code, persist the request,
// and dispatch the confirmation email. The balance may legitimately have
// changed since the client displayed it; a stale amount is rejected with a
// field error, not treated as a fault.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address, code string) (*domain.TransferRequest, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var verrs domain.ValidationErrors
	if err := eth.ValidateAddress(address); err != nil {
		verrs.Add("address", "Not a valid Ethereum address")
	}
	balance, err := s.Available(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amountErr := eth.ValidateAmount(amount, balance); amountErr != nil {
		if errors.Is(amountErr, domain.ErrAmountExceedsBalance) {
			verrs.Add("amount", fmt.Sprintf(
				"Withdrawal amount is greater than your balance of %s OGN", balance.String()))
		} else {
			verrs.Add("amount", "Amount must be a positive number")
		}
	}
	if !s.verifier.Verify(code, u.TOTPSecret) {
		verrs.Add("code", "Invalid one-time code")
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	token, hash, err := newConfirmationToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.TransferRequest{
		ID:               uuid.New(),
		UserID:           userID,
		Address:          address,
		Amount:           amount,
		Status:           domain.TransferCreated,
		TOTPVerifiedAt:   &now,
		ConfirmTokenHash: hash,
		ConfirmExpiresAt: now.Add(domain.ConfirmationWindow),
		CreatedAt:        now,
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/transfers/confirm/%s", s.confirmURL, token)
	if err := s.mailer.SendTransferConfirmation(ctx, u.Email, amount, link); err != nil {
		// The request stays Created; it expires naturally and the user can
		// retry the submission.
		s.logger.Error("failed to send confirmation email",
			"transferID", t.ID, "error", err)
		return nil, err
	}
	if _, err := s.transfers.UpdateStatus(ctx, t.ID, domain.TransferCreated, domain.TransferWaitingEmailConf); err != nil {
		return nil, err
	}
	t.Status = domain.TransferWaitingEmailConf

	metrics.TransfersSubmitted.Inc()
	s.logger.Info("transfer submitted, awaiting email confirmation",
		"transferID", t.ID, "amount", amount.String(), "address", address)
	return t, nil
}

// Confirm finalizes a pending transfer from an emailed token. The expiry
// check and the status transition are both decided by status-guarded updates,
// so a confirmation racing a duplicate confirmation or the expiry sweep
// resolves to exactly one winner and the broadcast fires at most once.
func (s *Service) Confirm(ctx context.Context, token string) (*domain.TransferRequest, error) {
	t, err := s.transfers.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	switch t.Status {
	case domain.TransferConfirmed:
		return nil, domain.ErrAlreadyConfirmed
	case domain.TransferExpired:
		return nil, domain.ErrTokenExpired
	case domain.TransferCancelled:
		return nil, domain.ErrTokenInvalid
	}

	if t.ExpiredAt(time.Now().UTC()) {
		if won, err := s.transfers.UpdateStatus(ctx, t.ID, t.Status, domain.TransferExpired); err != nil {
			return nil, err
		} else if won {
			metrics.TransfersExpired.Inc()
		}
		return nil, domain.ErrTokenExpired
	}

	won, err := s.transfers.UpdateStatus(ctx, t.ID, domain.TransferWaitingEmailConf, domain.TransferConfirmed)
	if err != nil {
		return nil, err
	}
	if !won {
		// Someone else moved the row first; report what actually happened.
		current, err := s.transfers.GetByTokenHash(ctx, hashToken(token))
		if err != nil {
			return nil, domain.ErrTokenInvalid
		}
		switch current.Status {
		case domain.TransferConfirmed:
			return nil, domain.ErrAlreadyConfirmed
		case domain.TransferExpired:
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	t.Status = domain.TransferConfirmed

	if err := s.broadcast.Broadcast(ctx, t); err != nil {
		// The confirmation stands; delivery to the chain is retried by the
		// broadcast collaborator, not by this service.
		s.logger.Error("broadcast failed for confirmed transfer",
			"transferID", t.ID, "error", err)
	}
	metrics.TransfersConfirmed.Inc()
	s.logger.Info("transfer confirmed", "transferID", t.ID, "amount", t.Amount.String())
	return t, nil
}

// ExpireStale sweeps requests whose confirmation window closed. Expired
// requests can never be confirmed afterwards.
func (s *Service) ExpireStale(ctx context.Context) error {
	n, err := s.transfers.ExpireStale(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.TransfersExpired.Add(float64(n))
		s.logger.Info("expired stale transfer requests", "count", n)
	}
	return nil
}
