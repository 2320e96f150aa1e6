package main

import (
	"context"
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"
	"github.com/ognlabs/token-transfer/app"
	"github.com/ognlabs/token-transfer/infra/repository"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/webapi"
	"github.com/robfig/cron/v3"
)

// @title Token Transfer API
// @version 1.0.0
// @description Withdrawal of OGN tokens gated behind second-factor and email confirmation.
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := repository.Open(cfg.DB.Url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	a := app.New(db, cfg, logger)

	// Sweep requests past their confirmation window. Confirmations racing the
	// sweep are decided by the status guard in the store, not by timing.
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		if err := a.TransferService.ExpireStale(context.Background()); err != nil {
			logger.Error("expiry sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}
	c.Start()
	defer c.Stop()

	fiberApp := webapi.SetupApp(a)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "address", addr, "public_url", cfg.Server.PublicURL)
	return fiberApp.Listen(addr)
}
