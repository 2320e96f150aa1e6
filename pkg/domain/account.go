package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a named destination account saved by a user. Accounts are
// immutable after creation; the only mutation is deletion by the owner.
// Nickname and address are each unique within a user's accounts.
type Account struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Nickname  string    `json:"nickname"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAccount builds an account for a user. Validation happens in the account
// service before the store is touched.
func NewAccount(userID uuid.UUID, nickname, address string) *Account {
	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Nickname:  nickname,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
}
