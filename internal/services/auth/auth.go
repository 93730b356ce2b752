// Package auth implements account creation and the three login paths:
// email/password, the Skool partner login, and the admin console login.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Theailaunchapd/Vib3-link/internal/config"
	jwtmaker "github.com/Theailaunchapd/Vib3-link/internal/lib/jwt"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/password"
	"github.com/Theailaunchapd/Vib3-link/internal/metrics"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/services/profile"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Errors reported to the login and signup forms.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const skoolBio = "Member of the Vib3 Idea Skool 🎓"

// UserRepository defines the user persistence the auth flows need.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, userUID string) error
}

// PromoLedger consumes a signup promo code before the account exists.
type PromoLedger interface {
	ValidateAndRedeem(ctx context.Context, code string) (*models.PromoCode, error)
}

// Enroller decides the initial subscription state and handles the partner
// login transition.
type Enroller interface {
	EnrollStatus(promo *models.PromoCode) (string, *time.Time)
	MarkSkoolMember(ctx context.Context, user *models.User) error
}

// ProfileWriter persists the starter page of a new account and drops the
// cached page of a removed one.
type ProfileWriter interface {
	Save(ctx context.Context, p *models.Profile) error
	Evict(ctx context.Context, username string) error
}

// SessionIssuer creates login tokens.
type SessionIssuer interface {
	Create(ctx context.Context, user *models.User) (string, error)
}

// Service implements the auth flows.
type Service struct {
	users         UserRepository
	promos        PromoLedger
	subscriptions Enroller
	profiles      ProfileWriter
	sessions      SessionIssuer
	jwt           jwtmaker.Maker
	admin         config.Admin
	log           *slog.Logger
}

// New creates the auth service.
func New(users UserRepository, promos PromoLedger, subscriptions Enroller,
	profiles ProfileWriter, sessions SessionIssuer,
	jwt jwtmaker.Maker, admin config.Admin, log *slog.Logger) *Service {
	return &Service{
		users:         users,
		promos:        promos,
		subscriptions: subscriptions,
		profiles:      profiles,
		sessions:      sessions,
		jwt:           jwt,
		admin:         admin,
		log:           log,
	}
}

// SanitizeUsername strips all whitespace from a handle and lowercases it.
func SanitizeUsername(username string) string {
	return strings.ToLower(strings.Join(strings.Fields(username), ""))
}

// Register creates a new account with its starter page and logs it in.
// A supplied promo code is redeemed first; a failed redemption aborts the
// signup before anything is written. Card details, when present, are kept
// only as the saved-method marker plus display data.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error) {
	const op = "auth.Register"

	username := SanitizeUsername(req.Username)
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	var promo *models.PromoCode
	if req.PromoCode != "" {
		var err error
		promo, err = s.promos.ValidateAndRedeem(ctx, req.PromoCode)
		if err != nil {
			return nil, "", err
		}
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	status, trialEndsAt := s.subscriptions.EnrollStatus(promo)
	user := &models.User{
		Email:              req.Email,
		Username:           username,
		PasswordHash:       hash,
		SubscriptionStatus: status,
		TrialEndsAt:        trialEndsAt,
	}
	if promo != nil {
		user.PromoCodeUsed = promo.Code
	}
	if req.CardNumber != "" {
		user.PaymentMethodSaved = true
		if len(req.CardNumber) >= 4 {
			user.LastFourDigits = req.CardNumber[len(req.CardNumber)-4:]
		}
		user.CardBrand = req.CardBrand
		user.StripeCustomerID = "cus_" + uuid.NewString()
	}

	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid
	user.CreatedAt = time.Now().UTC()

	if err := s.profiles.Save(ctx, profile.CreateDefault(user)); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.Signups.WithLabelValues("register").Inc()
	s.log.Info("account created",
		slog.String("user_uid", user.UID),
		slog.String("username", user.Username),
		slog.String("status", user.SubscriptionStatus))
	return user, token, nil
}

// Login authenticates by email and password and issues a session token.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// SkoolLogin is the partner community entry point. An existing account must
// present its password and is marked as a member; an unknown email gets a
// fresh member account with a handle derived from the email's local part.
func (s *Service) SkoolLogin(ctx context.Context, req models.DummyLogin) (*models.User, string, error) {
	const op = "auth.SkoolLogin"

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
			return nil, "", ErrInvalidCredentials
		}
		if err := s.subscriptions.MarkSkoolMember(ctx, user); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.createSkoolAccount(ctx, req)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

func (s *Service) createSkoolAccount(ctx context.Context, req models.DummyLogin) (*models.User, error) {
	const op = "auth.createSkoolAccount"

	username, err := s.freeUsername(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Email:              req.Email,
		Username:           username,
		PasswordHash:       hash,
		SubscriptionStatus: models.StatusSkoolMember,
		IsSkoolMember:      true,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid
	user.CreatedAt = time.Now().UTC()

	p := profile.CreateDefault(user)
	p.Bio = skoolBio
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.Signups.WithLabelValues("skool").Inc()
	s.log.Info("skool member account created",
		slog.String("user_uid", user.UID),
		slog.String("username", user.Username))
	return user, nil
}

// freeUsername derives a handle from the email's local part, appending a
// counter until it is unused.
func (s *Service) freeUsername(ctx context.Context, email string) (string, error) {
	base := SanitizeUsername(strings.SplitN(email, "@", 2)[0])
	if base == "" {
		base = "member"
	}
	candidate := base
	for i := 1; ; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + strconv.Itoa(i)
	}
}

// DeleteUser removes an account with its profile and analytics records and
// drops the cached public page, so reads see the deletion at once instead
// of after the cache TTL runs out.
func (s *Service) DeleteUser(ctx context.Context, userUID string) error {
	const op = "auth.DeleteUser"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.DeleteUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.profiles.Evict(ctx, user.Username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account deleted",
		slog.String("user_uid", userUID),
		slog.String("username", user.Username))
	return nil
}

// AdminLogin checks the back-office credential pair and issues a JWT with
// the admin role.
func (s *Service) AdminLogin(username, pass string) (string, error) {
	const op = "auth.AdminLogin"

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.admin.AdminPassword)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(username, jwtmaker.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin console login", slog.String("username", username))
	return token, nil
}
