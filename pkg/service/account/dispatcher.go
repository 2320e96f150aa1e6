package account

import (
	"context"
	"log/slog"

	"github.com/ognlabs/token-transfer/infra/provider/insights"
)

// GeoResolver resolves a network address to a country code.
type GeoResolver interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// InsightsClient registers a wallet address with the mailing list.
type InsightsClient interface {
	Join(ctx context.Context, reg insights.Registration) error
}

// Dispatcher performs the best-effort side effects that follow a successful
// account creation: an IP geolocation lookup and a mailing-list registration.
// Every failure is logged and swallowed here; nothing escapes to the caller.
type Dispatcher struct {
	geo      GeoResolver
	insights InsightsClient
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(geo GeoResolver, ins InsightsClient, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{geo: geo, insights: ins, logger: logger}
}

// Notify runs both steps in order. A failed geolocation lookup downgrades to
// an empty country code and a warning; the registration is still attempted.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	countryCode := ""
	if code, err := d.geo.CountryCode(ctx, n.IP); err != nil {
		d.logger.Warn("failed resolving IP to a country for wallet insights",
			"ip", n.IP, "error", err)
	} else {
		countryCode = code
	}

	err := d.insights.Join(ctx, insights.Registration{
		Email:       n.Email,
		EthAddress:  n.EthAddress,
		Name:        n.Name,
		IP:          n.IP,
		CountryCode: countryCode,
	})
	if err != nil {
		d.logger.Warn("could not add address to wallet insights",
			"address", n.EthAddress, "email", n.Email, "error", err)
		return
	}
	d.logger.Info("added address to wallet insights",
		"address", n.EthAddress, "email", n.Email)
}
