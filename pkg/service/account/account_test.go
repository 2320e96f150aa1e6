package account

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/stretchr/testify/suite"
)

const (
	addrLedger = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	addrTrezor = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAccountRepo mimics the store's per-user uniqueness constraints so the
// duplicate-create race resolves the same way it does against postgres.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts []domain.Account
}

func (r *fakeAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var verrs domain.ValidationErrors
	for _, existing := range r.accounts {
		if existing.UserID != a.UserID {
			continue
		}
		if existing.Nickname == a.Nickname {
			verrs.Add("nickname", "Nickname is already in use")
		}
		if existing.Address == a.Address {
			verrs.Add("address", "Address is already in use")
		}
	}
	if len(verrs) > 0 {
		return verrs
	}
	r.accounts = append(r.accounts, *a)
	return nil
}

func (r *fakeAccountRepo) NicknameExists(_ context.Context, userID uuid.UUID, nickname string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.UserID == userID && a.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) AddressExists(_ context.Context, userID uuid.UUID, address string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.UserID == userID && a.Address == address {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, userID, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.accounts {
		if a.ID == accountID && a.UserID == userID {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// recordingNotifier captures the detached notification so tests can wait for
// it without sleeping.
type recordingNotifier struct {
	notified chan Notification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notified: make(chan Notification, 1)}
}

func (n *recordingNotifier) Notify(_ context.Context, notification Notification) {
	n.notified <- notification
}

type AccountServiceTestSuite struct {
	suite.Suite
	svc      *Service
	repo     *fakeAccountRepo
	notifier *recordingNotifier
	userID   uuid.UUID
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.repo = &fakeAccountRepo{}
	s.notifier = newRecordingNotifier()
	s.userID = uuid.New()

	users := &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
	users.users[s.userID] = &domain.User{
		ID:    s.userID,
		Email: "holder@example.com",
		Name:  "Holder",
	}
	s.svc = New(s.repo, users, s.notifier, discardLogger())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) waitForNotification() Notification {
	select {
	case n := <-s.notifier.notified:
		return n
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for dispatcher notification")
		return Notification{}
	}
}

func (s *AccountServiceTestSuite) TestCreateSuccessNotifies() {
	a, err := s.svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "203.0.113.7")
	s.Require().NoError(err)
	s.Equal("Ledger", a.Nickname)
	s.Equal(addrLedger, a.Address)

	n := s.waitForNotification()
	s.Equal("holder@example.com", n.Email)
	s.Equal("Holder", n.Name)
	s.Equal(addrLedger, n.EthAddress)
	s.Equal("203.0.113.7", n.IP)
}

func (s *AccountServiceTestSuite) TestCreateEmployeeSkipsNotification() {
	employeeID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*domain.User{
		employeeID: {ID: employeeID, Email: "staff@example.com", Employee: true},
	}}
	svc := New(s.repo, users, s.notifier, discardLogger())

	_, err := svc.Create(context.Background(), employeeID, "Ledger", addrLedger, "203.0.113.7")
	s.Require().NoError(err)

	select {
	case <-s.notifier.notified:
		s.Fail("employee account creation must not notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *AccountServiceTestSuite) TestCreateDuplicateNickname() {
	_, err := s.svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "")
	s.Require().NoError(err)
	s.waitForNotification()

	_, err = s.svc.Create(context.Background(), s.userID, "Ledger", addrTrezor, "")
	var verrs domain.ValidationErrors
	s.Require().ErrorAs(err, &verrs)
	s.Equal("Nickname is already in use", verrs.Get("nickname"))
	s.Equal(1, s.repo.count(), "exactly one account persisted")
}

func (s *AccountServiceTestSuite) TestCreateDuplicateAddress() {
	_, err := s.svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "")
	s.Require().NoError(err)
	s.waitForNotification()

	_, err = s.svc.Create(context.Background(), s.userID, "Backup", addrLedger, "")
	var verrs domain.ValidationErrors
	s.Require().ErrorAs(err, &verrs)
	s.Equal("Address is already in use", verrs.Get("address"))
}

func (s *AccountServiceTestSuite) TestCreateSameNicknameDifferentUsers() {
	otherID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*domain.User{
		s.userID: {ID: s.userID, Email: "a@example.com"},
		otherID:  {ID: otherID, Email: "b@example.com"},
	}}
	svc := New(s.repo, users, nil, discardLogger())

	_, err := svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "")
	s.Require().NoError(err)
	_, err = svc.Create(context.Background(), otherID, "Ledger", addrLedger, "")
	s.Require().NoError(err, "uniqueness is scoped per user")
}

func (s *AccountServiceTestSuite) TestCreateMalformedAddress() {
	_, err := s.svc.Create(context.Background(), s.userID, "Ledger", "not-an-address", "")
	var verrs domain.ValidationErrors
	s.Require().ErrorAs(err, &verrs)
	s.Equal("Not a valid Ethereum address", verrs.Get("address"))
	s.Zero(s.repo.count())
}

func (s *AccountServiceTestSuite) TestCreateEmptyNickname() {
	_, err := s.svc.Create(context.Background(), s.userID, "   ", addrLedger, "")
	var verrs domain.ValidationErrors
	s.Require().ErrorAs(err, &verrs)
	s.Equal("Nickname is required", verrs.Get("nickname"))
}

func (s *AccountServiceTestSuite) TestCreateFailureDoesNotNotify() {
	_, err := s.svc.Create(context.Background(), s.userID, "Ledger", "not-an-address", "")
	s.Require().Error(err)

	select {
	case <-s.notifier.notified:
		s.Fail("a failed state change must not notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *AccountServiceTestSuite) TestListCreationOrder() {
	_, err := s.svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "")
	s.Require().NoError(err)
	s.waitForNotification()
	_, err = s.svc.Create(context.Background(), s.userID, "Trezor", addrTrezor, "")
	s.Require().NoError(err)
	s.waitForNotification()

	accounts, err := s.svc.List(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)
	s.Equal("Ledger", accounts[0].Nickname)
	s.Equal("Trezor", accounts[1].Nickname)
}

func (s *AccountServiceTestSuite) TestDeleteOwnedOnly() {
	a, err := s.svc.Create(context.Background(), s.userID, "Ledger", addrLedger, "")
	s.Require().NoError(err)
	s.waitForNotification()

	err = s.svc.Delete(context.Background(), uuid.New(), a.ID)
	s.Require().ErrorIs(err, domain.ErrNotFound, "another user's delete is a 404")

	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, a.ID))
	s.Require().ErrorIs(s.svc.Delete(context.Background(), s.userID, a.ID), domain.ErrNotFound)
}
