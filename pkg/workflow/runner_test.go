package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	nickname string
	address  string
}

type submitCall struct {
	amount  string
	address string
	code    string
}

type fakeClient struct {
	mu          sync.Mutex
	creates     []createCall
	submits     []submitCall
	createErr   error
	submitErr   error
	block       chan struct{}
	blockActive bool
}

func (c *fakeClient) CreateAccount(_ context.Context, nickname, address string) (*domain.Account, error) {
	c.mu.Lock()
	c.creates = append(c.creates, createCall{nickname, address})
	block := c.blockActive
	c.mu.Unlock()
	if block {
		<-c.block
	}
	if c.createErr != nil {
		return nil, c.createErr
	}
	return &domain.Account{ID: uuid.New(), Nickname: nickname, Address: address}, nil
}

func (c *fakeClient) SubmitTransfer(_ context.Context, amount, address, code string) error {
	c.mu.Lock()
	c.submits = append(c.submits, submitCall{amount, address, code})
	c.mu.Unlock()
	return c.submitErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFormRunner(client Client, accounts []domain.Account, balance int64) *Runner {
	r := NewRunner(client, accounts, decimal.NewFromInt(balance), discardLogger())
	r.Apply(Continue{})
	return r
}

func TestSubmitFormAddAccountFlow(t *testing.T) {
	client := &fakeClient{}
	r := newFormRunner(client, nil, 500)

	assert.False(t, r.State().UseExisting)

	r.Apply(SetField{Field: "amount", Value: "100"})
	r.Apply(SetField{Field: "address", Value: addrLedger})
	r.Apply(SetField{Field: "nickname", Value: "Ledger"})

	require.NoError(t, r.SubmitForm(context.Background()))

	require.Len(t, client.creates, 1)
	assert.Equal(t, createCall{"Ledger", addrLedger}, client.creates[0])
	assert.Equal(t, StepTwoFactor, r.State().Step)

	r.Apply(SetField{Field: "code", Value: "123456"})
	require.NoError(t, r.SubmitCode(context.Background()))

	require.Len(t, client.submits, 1)
	assert.Equal(t, submitCall{"100", addrLedger, "123456"}, client.submits[0])
	assert.Equal(t, StepCheckEmail, r.State().Step)
}

func TestSubmitFormAmountExceedsBalance(t *testing.T) {
	client := &fakeClient{}
	r := newFormRunner(client, savedAccounts(), 500)

	r.Apply(SetField{Field: "amount", Value: "600"})

	require.NoError(t, r.SubmitForm(context.Background()))

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, "Withdrawal amount is greater than your balance of 500 OGN",
		s.FieldErrors["amount"])
	assert.Empty(t, client.creates, "local validation must not hit the network")
}

func TestSubmitFormInvalidAmount(t *testing.T) {
	client := &fakeClient{}
	r := newFormRunner(client, savedAccounts(), 500)

	r.Apply(SetField{Field: "amount", Value: "-3"})

	require.NoError(t, r.SubmitForm(context.Background()))

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, "Invalid withdrawal amount", s.FieldErrors["amount"])
	assert.Empty(t, client.creates)
}

func TestSubmitFormMalformedAddress(t *testing.T) {
	client := &fakeClient{}
	r := newFormRunner(client, nil, 500)

	r.Apply(SetField{Field: "amount", Value: "100"})
	r.Apply(SetField{Field: "address", Value: "not-an-address"})
	r.Apply(SetField{Field: "nickname", Value: "Ledger"})

	require.NoError(t, r.SubmitForm(context.Background()))

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, "Not a valid Ethereum address", s.FieldErrors["address"])
	assert.Empty(t, client.creates)
}

func TestSubmitFormUseExistingSkipsCreate(t *testing.T) {
	client := &fakeClient{}
	r := newFormRunner(client, savedAccounts(), 500)

	r.Apply(SetField{Field: "amount", Value: "100"})

	require.NoError(t, r.SubmitForm(context.Background()))

	assert.Empty(t, client.creates)
	assert.Equal(t, StepTwoFactor, r.State().Step)
}

func TestSubmitFormServerValidationStaysOnForm(t *testing.T) {
	client := &fakeClient{createErr: &APIError{
		Status: 422,
		Errors: []domain.FieldError{{Field: "nickname", Message: "Nickname is already in use"}},
	}}
	r := newFormRunner(client, nil, 500)

	r.Apply(SetField{Field: "amount", Value: "100"})
	r.Apply(SetField{Field: "address", Value: addrLedger})
	r.Apply(SetField{Field: "nickname", Value: "Ledger"})

	require.NoError(t, r.SubmitForm(context.Background()))

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, "Nickname is already in use", s.FieldErrors["nickname"])
	assert.False(t, s.Pending)
}

func TestSubmitFormTransportFailureLeavesState(t *testing.T) {
	client := &fakeClient{createErr: errors.New("connection refused")}
	r := newFormRunner(client, nil, 500)

	r.Apply(SetField{Field: "amount", Value: "100"})
	r.Apply(SetField{Field: "address", Value: addrLedger})
	r.Apply(SetField{Field: "nickname", Value: "Ledger"})
	before := r.State()

	err := r.SubmitForm(context.Background())
	require.Error(t, err)

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, before.Amount, s.Amount)
	assert.Equal(t, before.Nickname, s.Nickname)
	assert.Empty(t, s.FieldErrors)
	assert.False(t, s.Pending, "the user may retry after a transport failure")
}

func TestSubmitCodeWrongCodeStaysOnTwoFactor(t *testing.T) {
	client := &fakeClient{submitErr: &APIError{
		Status: 422,
		Errors: []domain.FieldError{{Field: "code", Message: "Invalid code"}},
	}}
	r := newFormRunner(client, savedAccounts(), 500)

	r.Apply(SetField{Field: "amount", Value: "100"})
	require.NoError(t, r.SubmitForm(context.Background()))
	r.Apply(SetField{Field: "code", Value: "000000"})

	require.NoError(t, r.SubmitCode(context.Background()))

	s := r.State()
	assert.Equal(t, StepTwoFactor, s.Step)
	assert.Equal(t, "Invalid code", s.FieldErrors["code"])
}

func TestSubmitCodeStaleBalanceReturnsToForm(t *testing.T) {
	client := &fakeClient{submitErr: &APIError{
		Status: 422,
		Errors: []domain.FieldError{{
			Field:   "amount",
			Message: "Withdrawal amount is greater than your balance of 100 OGN",
		}},
	}}
	r := newFormRunner(client, savedAccounts(), 500)

	r.Apply(SetField{Field: "amount", Value: "400"})
	require.NoError(t, r.SubmitForm(context.Background()))
	r.Apply(SetField{Field: "code", Value: "123456"})

	require.NoError(t, r.SubmitCode(context.Background()))

	s := r.State()
	assert.Equal(t, StepForm, s.Step)
	assert.Equal(t, "Withdrawal amount is greater than your balance of 100 OGN",
		s.FieldErrors["amount"])
}

func TestSubmitFormSingleFlight(t *testing.T) {
	client := &fakeClient{block: make(chan struct{}), blockActive: true}
	r := newFormRunner(client, nil, 500)

	r.Apply(SetField{Field: "amount", Value: "100"})
	r.Apply(SetField{Field: "address", Value: addrLedger})
	r.Apply(SetField{Field: "nickname", Value: "Ledger"})

	done := make(chan error, 1)
	go func() { done <- r.SubmitForm(context.Background()) }()

	// Wait for the first submission to reach the client and park there.
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.creates) == 1
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, r.SubmitForm(context.Background()), ErrSubmissionInFlight)

	close(client.block)
	require.NoError(t, <-done)

	assert.Equal(t, StepTwoFactor, r.State().Step)
	require.Len(t, client.creates, 1)
}

func TestSubmitCodeFromWrongStep(t *testing.T) {
	r := NewRunner(&fakeClient{}, nil, decimal.NewFromInt(500), discardLogger())
	assert.Error(t, r.SubmitCode(context.Background()))
}
