package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a saved destination account record in the database.
// The composite unique indexes are what make concurrent duplicate creates
// race safely to a single winner.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_user_nickname,priority:1;uniqueIndex:idx_accounts_user_address,priority:1"`
	Nickname  string    `gorm:"size:100;not null;uniqueIndex:idx_accounts_user_nickname,priority:2"`
	Address   string    `gorm:"size:42;not null;uniqueIndex:idx_accounts_user_address,priority:2"`
	CreatedAt time.Time
}

// Transfer represents a persisted withdrawal request.
type Transfer struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Address          string          `gorm:"size:42;not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(26,8);not null"`
	Status           string          `gorm:"size:32;not null;index"`
	TOTPVerifiedAt   *time.Time
	ConfirmTokenHash string `gorm:"size:64;uniqueIndex"`
	ConfirmExpiresAt time.Time
	CreatedAt        time.Time
}

// User represents a user record in the database.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	Name         string    `gorm:"size:255"`
	Employee     bool      `gorm:"not null;default:false"`
	PasswordHash string    `gorm:"not null"`
	TOTPSecret   string    `gorm:"size:64"`
	CreatedAt    time.Time
}

// Grant represents a vested token grant record.
type Grant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(26,8);not null"`
	CreatedAt time.Time
}
