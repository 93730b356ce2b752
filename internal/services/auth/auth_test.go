package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/config"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/jwt"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/password"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user *models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

type PromoLedgerMock struct {
	mock.Mock
}

func (m *PromoLedgerMock) ValidateAndRedeem(ctx context.Context, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, code)
	promo, _ := args.Get(0).(*models.PromoCode)
	return promo, args.Error(1)
}

type EnrollerMock struct {
	mock.Mock
}

func (m *EnrollerMock) EnrollStatus(promo *models.PromoCode) (string, *time.Time) {
	args := m.Called(promo)
	expiry, _ := args.Get(1).(*time.Time)
	return args.String(0), expiry
}

func (m *EnrollerMock) MarkSkoolMember(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type ProfileWriterMock struct {
	mock.Mock
}

func (m *ProfileWriterMock) Save(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileWriterMock) Evict(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

type SessionIssuerMock struct {
	mock.Mock
}

func (m *SessionIssuerMock) Create(ctx context.Context, user *models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type testDeps struct {
	users    *UserRepositoryMock
	promos   *PromoLedgerMock
	enroller *EnrollerMock
	profiles *ProfileWriterMock
	sessions *SessionIssuerMock
}

func newTestService(admin config.Admin) (*Service, *testDeps) {
	deps := &testDeps{
		users:    new(UserRepositoryMock),
		promos:   new(PromoLedgerMock),
		enroller: new(EnrollerMock),
		profiles: new(ProfileWriterMock),
		sessions: new(SessionIssuerMock),
	}
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	s := New(deps.users, deps.promos, deps.enroller, deps.profiles, deps.sessions,
		maker, admin, newNoopLogger())
	return s, deps
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  My Handle  ", "myhandle"},
		{"Spaced\tOut Name", "spacedoutname"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeUsername(tt.in))
	}
}

func TestService_Register(t *testing.T) {
	t.Run("creates account with trial and starter page", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})

		expiry := time.Now().UTC().AddDate(0, 0, 14)
		deps.users.On("GetUserByEmail", mock.Anything, "alice@example.com").
			Return(nil, repository.ErrNotFound).Once()
		deps.users.On("GetUserByUsername", mock.Anything, "alice").
			Return(nil, repository.ErrNotFound).Once()
		deps.enroller.On("EnrollStatus", (*models.PromoCode)(nil)).
			Return(models.StatusTrial, &expiry).Once()
		deps.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" && u.SubscriptionStatus == models.StatusTrial &&
				u.PasswordHash != "" && u.PasswordHash != "secret123"
		})).Return("uid-1", nil).Once()
		deps.profiles.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.Username == "alice" && p.UserID == "uid-1"
		})).Return(nil).Once()
		deps.sessions.On("Create", mock.Anything, mock.Anything).Return("tok-1", nil).Once()

		user, token, err := s.Register(context.Background(), models.DummyRegister{
			Username: "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "uid-1", user.UID)
		deps.users.AssertExpectations(t)
		deps.profiles.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, "alice@example.com").
			Return(&models.User{UID: "other"}, nil).Once()

		_, _, err := s.Register(context.Background(), models.DummyRegister{
			Username: "alice", Email: "alice@example.com", Password: "secret123",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
		deps.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()
		deps.users.On("GetUserByUsername", mock.Anything, "alice").
			Return(&models.User{UID: "other"}, nil).Once()

		_, _, err := s.Register(context.Background(), models.DummyRegister{
			Username: "Alice", Email: "new@example.com", Password: "secret123",
		})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("failed promo redemption aborts before any write", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()
		deps.users.On("GetUserByUsername", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()
		deps.promos.On("ValidateAndRedeem", mock.Anything, "GONE").
			Return(nil, repository.ErrPromoLimitReached).Once()

		_, _, err := s.Register(context.Background(), models.DummyRegister{
			Username: "bob", Email: "bob@example.com", Password: "secret123", PromoCode: "GONE",
		})
		require.ErrorIs(t, err, repository.ErrPromoLimitReached)
		deps.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("card details become the saved payment method", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		expiry := time.Now().UTC().AddDate(0, 0, 14)
		deps.users.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()
		deps.users.On("GetUserByUsername", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()
		deps.enroller.On("EnrollStatus", (*models.PromoCode)(nil)).
			Return(models.StatusTrial, &expiry).Once()
		deps.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.PaymentMethodSaved && u.LastFourDigits == "4242" &&
				u.CardBrand == "visa" && u.StripeCustomerID != ""
		})).Return("uid-1", nil).Once()
		deps.profiles.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		deps.sessions.On("Create", mock.Anything, mock.Anything).Return("tok-1", nil).Once()

		_, _, err := s.Register(context.Background(), models.DummyRegister{
			Username: "carol", Email: "carol@example.com", Password: "secret123",
			CardNumber: "4242424242424242", CardBrand: "visa",
		})
		require.NoError(t, err)
		deps.users.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	stored := &models.User{UID: "uid-1", Email: "alice@example.com", PasswordHash: hash}

	t.Run("valid credentials", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
		deps.sessions.On("Create", mock.Anything, stored).Return("tok-1", nil).Once()

		user, token, err := s.Login(context.Background(), models.DummyLogin{
			Email: "alice@example.com", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "uid-1", user.UID)
	})

	t.Run("wrong password", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()

		_, _, err := s.Login(context.Background(), models.DummyLogin{
			Email: "alice@example.com", Password: "wrong-pass",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound).Once()

		_, _, err := s.Login(context.Background(), models.DummyLogin{
			Email: "ghost@example.com", Password: "whatever1",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_SkoolLogin(t *testing.T) {
	t.Run("existing account is marked as member", func(t *testing.T) {
		hash, err := password.GetHash("secret123")
		require.NoError(t, err)
		stored := &models.User{UID: "uid-1", Email: "alice@example.com", PasswordHash: hash}

		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
		deps.enroller.On("MarkSkoolMember", mock.Anything, stored).Return(nil).Once()
		deps.sessions.On("Create", mock.Anything, stored).Return("tok-1", nil).Once()

		_, token, err := s.SkoolLogin(context.Background(), models.DummyLogin{
			Email: "alice@example.com", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
		deps.enroller.AssertExpectations(t)
	})

	t.Run("unknown email gets a member account with a derived handle", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUserByEmail", mock.Anything, "new.member@example.com").
			Return(nil, repository.ErrNotFound).Once()
		// the first candidate is taken, the counter resolves the collision
		deps.users.On("GetUserByUsername", mock.Anything, "new.member").
			Return(&models.User{UID: "other"}, nil).Once()
		deps.users.On("GetUserByUsername", mock.Anything, "new.member1").
			Return(nil, repository.ErrNotFound).Once()
		deps.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "new.member1" &&
				u.SubscriptionStatus == models.StatusSkoolMember && u.IsSkoolMember
		})).Return("uid-2", nil).Once()
		deps.profiles.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.Bio == "Member of the Vib3 Idea Skool 🎓"
		})).Return(nil).Once()
		deps.sessions.On("Create", mock.Anything, mock.Anything).Return("tok-2", nil).Once()

		user, _, err := s.SkoolLogin(context.Background(), models.DummyLogin{
			Email: "new.member@example.com", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "new.member1", user.Username)
		deps.users.AssertExpectations(t)
	})
}

func TestService_DeleteUser(t *testing.T) {
	t.Run("drops the cached page after the cascade", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", Username: "alice"}, nil).Once()
		deps.users.On("DeleteUser", mock.Anything, "uid-1").Return(nil).Once()
		deps.profiles.On("Evict", mock.Anything, "alice").Return(nil).Once()

		require.NoError(t, s.DeleteUser(context.Background(), "uid-1"))
		deps.users.AssertExpectations(t)
		deps.profiles.AssertExpectations(t)
	})

	t.Run("unknown account keeps ErrNotFound", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUser", mock.Anything, "ghost").
			Return(nil, repository.ErrNotFound).Once()

		require.ErrorIs(t, s.DeleteUser(context.Background(), "ghost"), repository.ErrNotFound)
		deps.users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
		deps.profiles.AssertNotCalled(t, "Evict", mock.Anything, mock.Anything)
	})

	t.Run("failed cascade leaves the cache untouched", func(t *testing.T) {
		s, deps := newTestService(config.Admin{})
		deps.users.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", Username: "alice"}, nil).Once()
		deps.users.On("DeleteUser", mock.Anything, "uid-1").
			Return(errors.New("db down")).Once()

		require.Error(t, s.DeleteUser(context.Background(), "uid-1"))
		deps.profiles.AssertNotCalled(t, "Evict", mock.Anything, mock.Anything)
	})
}

func TestService_AdminLogin(t *testing.T) {
	admin := config.Admin{AdminUsername: "admin", AdminPassword: "vib3admin2025"}
	s, _ := newTestService(admin)

	t.Run("valid credentials issue an admin token", func(t *testing.T) {
		token, err := s.AdminLogin("admin", "vib3admin2025")
		require.NoError(t, err)

		maker := jwt.NewJWTMaker("test-secret", time.Hour)
		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, jwt.RoleAdmin, claims.Role)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.AdminLogin("admin", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := s.AdminLogin("root", "vib3admin2025")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
