// Package metrics registers the Prometheus instruments for the withdrawal
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccountsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_transfer_accounts_created_total",
		Help: "Destination accounts created.",
	})
	TransfersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_transfer_transfers_submitted_total",
		Help: "Withdrawal requests accepted and awaiting email confirmation.",
	})
	TransfersConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_transfer_transfers_confirmed_total",
		Help: "Withdrawal requests confirmed via email link.",
	})
	TransfersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "token_transfer_transfers_expired_total",
		Help: "Withdrawal requests that passed their confirmation window.",
	})
)
