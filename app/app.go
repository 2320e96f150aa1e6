// Package app wires the repositories, providers, and services together.
package app

import (
	"log/slog"

	"github.com/ognlabs/token-transfer/infra/broadcast"
	"github.com/ognlabs/token-transfer/infra/mailer"
	"github.com/ognlabs/token-transfer/infra/provider/geoip"
	"github.com/ognlabs/token-transfer/infra/provider/insights"
	inforepo "github.com/ognlabs/token-transfer/infra/repository"
	"github.com/ognlabs/token-transfer/pkg/config"
	accountsvc "github.com/ognlabs/token-transfer/pkg/service/account"
	authsvc "github.com/ognlabs/token-transfer/pkg/service/auth"
	transfersvc "github.com/ognlabs/token-transfer/pkg/service/transfer"
	"gorm.io/gorm"
)

// App holds the built services and shared dependencies.
type App struct {
	AccountService  *accountsvc.Service
	TransferService *transfersvc.Service
	AuthService     *authsvc.Service
	Config          *config.App
	Logger          *slog.Logger
}

// New builds all services on top of an open database handle.
func New(db *gorm.DB, cfg *config.App, logger *slog.Logger) *App {
	accounts := inforepo.NewAccountRepository(db)
	transfers := inforepo.NewTransferRepository(db)
	users := inforepo.NewUserRepository(db)
	grants := inforepo.NewGrantRepository(db)

	dispatcher := accountsvc.NewDispatcher(
		geoip.New(cfg.Geo.ApiUrl, cfg.Geo.Timeout),
		insights.New(cfg.Insights.Url, cfg.Insights.Timeout),
		logger,
	)

	return &App{
		AccountService: accountsvc.New(accounts, users, dispatcher, logger),
		TransferService: transfersvc.New(
			transfers,
			grants,
			users,
			transfersvc.TOTPVerifier{},
			mailer.New(cfg.SMTP, logger),
			broadcast.New(logger),
			cfg.Server.PublicURL,
			logger,
		),
		AuthService: authsvc.New(users, cfg.Jwt, logger),
		Config:      cfg,
		Logger:      logger,
	}
}
