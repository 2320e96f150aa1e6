// Package workflow implements the client-side withdrawal workflow: a finite
// state machine driving the user from the disclaimer through data entry and
// second-factor entry to the check-your-email screen.
//
// The machine itself is a pure value type: every transition is expressed as
// Reduce(state, event) -> state, with no hidden mutation. The side-effectful
// parts (the network calls and the single-in-flight discipline) live in the
// Runner.
package workflow

import (
	"github.com/ognlabs/token-transfer/pkg/domain"
)

// Step is the current screen of the workflow.
type Step string

const (
	StepDisclaimer Step = "Disclaimer"
	StepForm       Step = "Form"
	StepTwoFactor  Step = "TwoFactor"
	StepCheckEmail Step = "CheckEmail"
)

// formFields are the input names the server may attach validation errors to.
// Anything else in an error payload is ignored.
var formFields = map[string]bool{
	"amount":   true,
	"address":  true,
	"nickname": true,
	"code":     true,
}

// State is the transient form state of one workflow instance. It is created
// fresh when the workflow opens, replaced wholesale on every transition, and
// fully reset when the workflow closes. Nothing here is persisted.
type State struct {
	Step        Step
	Amount      string
	Address     string
	Nickname    string
	Code        string
	UseExisting bool
	FieldErrors map[string]string
	// Pending is set while a network call is in flight; submissions are
	// rejected until it clears.
	Pending bool
}

// NewState returns the initial workflow state. When the user has saved
// accounts the form defaults to choosing among them, preselecting the first;
// with no saved accounts it defaults to the add-account sub-mode.
func NewState(accounts []domain.Account) State {
	s := State{
		Step:        StepDisclaimer,
		FieldErrors: map[string]string{},
	}
	if len(accounts) > 0 {
		s.UseExisting = true
		s.Address = accounts[0].Address
	}
	return s
}

// Event is a workflow input: user actions and server responses.
type Event interface{ isEvent() }

// Continue advances past the disclaimer.
type Continue struct{}

// SetField records user input into a named form field and clears that
// field's error.
type SetField struct {
	Field string
	Value string
}

// ToggleAccountMode switches between "use existing account" and "add new
// account" inside the form. The amount and the current step survive the
// toggle; address, nickname, and field errors are cleared. This is a
// re-entry into the form with a narrower reset, not a workflow reset.
type ToggleAccountMode struct{}

// ServerErrors maps a 422 error payload onto the form fields. The first
// message per field wins; unknown fields are dropped.
type ServerErrors struct {
	Errors []domain.FieldError
}

// Advance moves to the next step after a successful submission.
type Advance struct{}

// Close resets the workflow to its initial state. It does not cancel a
// transfer request already created server-side; that relies on natural
// expiry.
type Close struct {
	Accounts []domain.Account
}

func (Continue) isEvent()          {}
func (SetField) isEvent()          {}
func (ToggleAccountMode) isEvent() {}
func (ServerErrors) isEvent()      {}
func (Advance) isEvent()           {}
func (Close) isEvent()             {}

// Reduce applies one event to the state and returns the next state. It is
// pure: the input state is never mutated.
func Reduce(s State, ev Event) State {
	next := s.clone()
	switch ev := ev.(type) {
	case Continue:
		if next.Step == StepDisclaimer {
			next.Step = StepForm
		}
	case SetField:
		switch ev.Field {
		case "amount":
			next.Amount = ev.Value
		case "address":
			next.Address = ev.Value
		case "nickname":
			next.Nickname = ev.Value
		case "code":
			next.Code = ev.Value
		default:
			return s
		}
		delete(next.FieldErrors, ev.Field)
	case ToggleAccountMode:
		next.Address = ""
		next.Nickname = ""
		next.FieldErrors = map[string]string{}
		next.UseExisting = !next.UseExisting
	case ServerErrors:
		for _, fe := range ev.Errors {
			if !formFields[fe.Field] {
				continue
			}
			if _, taken := next.FieldErrors[fe.Field]; !taken {
				next.FieldErrors[fe.Field] = fe.Message
			}
		}
	case Advance:
		switch next.Step {
		case StepForm:
			next.Step = StepTwoFactor
		case StepTwoFactor:
			next.Step = StepCheckEmail
		}
	case Close:
		return NewState(ev.Accounts)
	}
	return next
}

func (s State) clone() State {
	next := s
	next.FieldErrors = make(map[string]string, len(s.FieldErrors))
	for k, v := range s.FieldErrors {
		next.FieldErrors[k] = v
	}
	return next
}

// withError returns a copy of the state carrying a single field error.
func (s State) withError(field, message string) State {
	next := s.clone()
	next.FieldErrors[field] = message
	return next
}
