// Command seed creates a demo user with a vested grant and prints the TOTP
// provisioning URL, for local development against a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/infra/repository"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/pkg/domain"
	authsvc "github.com/ognlabs/token-transfer/pkg/service/auth"
	"github.com/pquerna/otp/totp"
	"github.com/shopspring/decimal"
)

func main() {
	email := flag.String("email", "demo@example.com", "user email")
	name := flag.String("name", "Demo User", "user name")
	password := flag.String("password", "password123", "user password")
	grant := flag.String("grant", "500", "vested grant amount in OGN")
	employee := flag.Bool("employee", false, "mark the user as an employee")
	flag.Parse()

	if err := run(*email, *name, *password, *grant, *employee); err != nil {
		log.Fatal(err)
	}
}

func run(email, name, password, grant string, employee bool) error {
	logger := slog.Default()
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	db, err := repository.Open(cfg.DB.Url)
	if err != nil {
		return err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Token Transfer",
		AccountName: email,
	})
	if err != nil {
		return err
	}
	hash, err := authsvc.HashPassword(password)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(grant)
	if err != nil {
		return fmt.Errorf("invalid grant amount %q: %w", grant, err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	grants := repository.NewGrantRepository(db)

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Employee:     employee,
		PasswordHash: hash,
		TOTPSecret:   key.Secret(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	if err := grants.Create(ctx, &domain.Grant{
		ID:        uuid.New(),
		UserID:    u.ID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	fmt.Printf("created user %s with a %s OGN grant\n", email, amount)
	fmt.Printf("TOTP provisioning URL: %s\n", key.URL())
	return nil
}
