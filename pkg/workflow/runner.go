package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/eth"
	"github.com/shopspring/decimal"
)

// ErrSubmissionInFlight is returned when a submission arrives while the
// previous one is still pending. The workflow never has two calls in flight.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Client is the server API surface the workflow drives.
type Client interface {
	// CreateAccount saves a destination account. Validation failures come
	// back as *APIError carrying field errors.
	CreateAccount(ctx context.Context, nickname, address string) (*domain.Account, error)
	// SubmitTransfer submits the withdrawal with the second-factor code.
	SubmitTransfer(ctx context.Context, amount, address, code string) error
}

// APIError is a structured validation failure from the server.
type APIError struct {
	Status int
	Errors []domain.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d with %d field errors", e.Status, len(e.Errors))
}

// Runner drives one workflow instance. It is single-flight: each submission
// suspends further input until the server responds, and the state machine is
// only advanced from responses. Transport failures leave the state exactly
// where it was so the user can retry the same step.
type Runner struct {
	mu      sync.Mutex
	state   State
	client  Client
	balance decimal.Decimal
	logger  *slog.Logger
}

// NewRunner opens a workflow over the user's saved accounts and the balance
// the client last fetched. The server re-checks the balance on submission;
// the local copy only gates the form.
func NewRunner(client Client, accounts []domain.Account, balance decimal.Decimal, logger *slog.Logger) *Runner {
	return &Runner{
		state:   NewState(accounts),
		client:  client,
		balance: balance,
		logger:  logger,
	}
}

// State returns a snapshot of the current workflow state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Apply feeds a pure event (Continue, SetField, ToggleAccountMode, Close)
// through the reducer.
func (r *Runner) Apply(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Reduce(r.state, ev)
}

// SubmitForm handles the Form step submission. Local validation runs first
// and never touches the network on failure. In add-account mode the account
// is created before advancing; in choose-account mode the chosen address is
// used as-is.
func (r *Runner) SubmitForm(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Step != StepForm {
		r.mu.Unlock()
		return fmt.Errorf("submit from step %s", r.state.Step)
	}
	if r.state.Pending {
		r.mu.Unlock()
		return ErrSubmissionInFlight
	}

	amount, err := eth.ParseAmount(r.state.Amount)
	if err != nil {
		r.state = r.state.withError("amount", "Invalid withdrawal amount")
		r.mu.Unlock()
		return nil
	}
	if err := eth.ValidateAmount(amount, r.balance); err != nil {
		r.state = r.state.withError("amount", fmt.Sprintf(
			"Withdrawal amount is greater than your balance of %s OGN", r.balance.String()))
		r.mu.Unlock()
		return nil
	}
	if err := eth.ValidateAddress(r.state.Address); err != nil {
		r.state = r.state.withError("address", "Not a valid Ethereum address")
		r.mu.Unlock()
		return nil
	}

	if r.state.UseExisting {
		r.state = Reduce(r.state, Advance{})
		r.mu.Unlock()
		return nil
	}

	nickname, address := r.state.Nickname, r.state.Address
	r.state.Pending = true
	r.mu.Unlock()

	_, callErr := r.client.CreateAccount(ctx, nickname, address)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Pending = false
	if callErr != nil {
		var apiErr *APIError
		if errors.As(callErr, &apiErr) {
			r.state = Reduce(r.state, r.serverErrors(apiErr))
			return nil
		}
		// Transport failure: state untouched, the user may retry.
		return callErr
	}
	r.state = Reduce(r.state, Advance{})
	return nil
}

// SubmitCode handles the TwoFactor step submission. A wrong code keeps the
// user on the code screen; a stale-balance rejection sends them back to the
// form to pick a new amount.
func (r *Runner) SubmitCode(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Step != StepTwoFactor {
		r.mu.Unlock()
		return fmt.Errorf("submit from step %s", r.state.Step)
	}
	if r.state.Pending {
		r.mu.Unlock()
		return ErrSubmissionInFlight
	}
	amount, address, code := r.state.Amount, r.state.Address, r.state.Code
	r.state.Pending = true
	r.mu.Unlock()

	callErr := r.client.SubmitTransfer(ctx, amount, address, code)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Pending = false
	if callErr != nil {
		var apiErr *APIError
		if errors.As(callErr, &apiErr) {
			r.state = Reduce(r.state, r.serverErrors(apiErr))
			if r.state.FieldErrors["amount"] != "" {
				// The balance moved underneath us; re-enter the form.
				r.state.Step = StepForm
			}
			return nil
		}
		return callErr
	}
	r.state = Reduce(r.state, Advance{})
	return nil
}

// serverErrors logs and drops unmapped fields before handing the payload to
// the reducer.
func (r *Runner) serverErrors(apiErr *APIError) ServerErrors {
	for _, fe := range apiErr.Errors {
		if !formFields[fe.Field] {
			r.logger.Warn("ignoring validation error for unknown field",
				"field", fe.Field, "message", fe.Message)
		}
	}
	return ServerErrors{Errors: apiErr.Errors}
}
