package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfirmationWindow is how long a user has to confirm a withdrawal via the
// emailed link. It is a contract shared by the server's expiry computation and
// the client-facing copy, not a cosmetic string.
const ConfirmationWindow = 5 * time.Minute

// TransferStatus is the lifecycle state of a withdrawal request. Transitions
// are monotonic; a request never moves backwards.
type TransferStatus string

const (
	TransferCreated          TransferStatus = "Created"
	TransferWaitingEmailConf TransferStatus = "WaitingEmailConfirm"
	TransferConfirmed        TransferStatus = "Confirmed"
	TransferExpired          TransferStatus = "Expired"
	TransferCancelled        TransferStatus = "Cancelled"
)

// TransferRequest is a pending withdrawal of tokens to an Ethereum address.
// The raw confirmation token is only ever embedded in the confirmation email;
// the server keeps its SHA-256 hash.
type TransferRequest struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"-"`
	Address          string          `json:"address"`
	Amount           decimal.Decimal `json:"amount"`
	Status           TransferStatus  `json:"status"`
	TOTPVerifiedAt   *time.Time      `json:"-"`
	ConfirmTokenHash string          `json:"-"`
	ConfirmExpiresAt time.Time       `json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Outstanding reports whether the request still counts against the user's
// available balance.
func (t *TransferRequest) Outstanding() bool {
	switch t.Status {
	case TransferCreated, TransferWaitingEmailConf, TransferConfirmed:
		return true
	}
	return false
}

// ExpiredAt reports whether the request's confirmation window has closed as
// of now. Only requests still waiting on a confirmation can expire.
func (t *TransferRequest) ExpiredAt(now time.Time) bool {
	switch t.Status {
	case TransferCreated, TransferWaitingEmailConf:
		return now.After(t.ConfirmExpiresAt)
	}
	return false
}
