// Package broadcast hands confirmed transfers to the on-chain sender. The
// actual signing and broadcasting lives in a separate system; this package is
// the seam it plugs into.
package broadcast

import (
	"context"
	"log/slog"

	"github.com/ognlabs/token-transfer/pkg/domain"
)

// QueueBroadcaster records confirmed transfers for the external sender to
// pick up. Today that means a structured log line the operator tooling tails.
type QueueBroadcaster struct {
	logger *slog.Logger
}

// New creates a QueueBroadcaster.
func New(logger *slog.Logger) *QueueBroadcaster {
	return &QueueBroadcaster{logger: logger}
}

// Broadcast enqueues a confirmed transfer.
func (b *QueueBroadcaster) Broadcast(ctx context.Context, t *domain.TransferRequest) error {
	b.logger.Info("transfer queued for on-chain broadcast",
		"transferID", t.ID,
		"address", t.Address,
		"amount", t.Amount.String(),
	)
	return nil
}
