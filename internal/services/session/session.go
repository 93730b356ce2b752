// Package session manages creator sessions: opaque tokens stored in Redis
// that resolve to a user and their profile, running the subscription expiry
// check on every resolution.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Theailaunchapd/Vib3-link/internal/cache"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// ErrNoSession is returned when a token is unknown, expired, or points at
// an account that no longer exists.
var ErrNoSession = errors.New("no active session")

// Session is one resolved login: the token, the account and its page.
type Session struct {
	Token   string
	User    *models.User
	Profile *models.Profile
}

// UserRepository defines the user lookup the resolver needs.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SubscriptionResolver runs the lazy expiry check on resolution.
type SubscriptionResolver interface {
	ResolveExpiry(ctx context.Context, user *models.User) (*models.User, error)
}

// ProfileProvider loads the profile attached to a session.
type ProfileProvider interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// Service issues and resolves session tokens.
type Service struct {
	users         UserRepository
	subscriptions SubscriptionResolver
	profiles      ProfileProvider
	cache         *cache.Cache
	log           *slog.Logger
	ttl           time.Duration
}

// New creates the session service.
func New(users UserRepository, subscriptions SubscriptionResolver,
	profiles ProfileProvider, cch *cache.Cache, log *slog.Logger, ttl time.Duration) *Service {
	return &Service{
		users:         users,
		subscriptions: subscriptions,
		profiles:      profiles,
		cache:         cch,
		log:           log,
		ttl:           ttl,
	}
}

func tokenKey(token string) string {
	return "session:" + token
}

// Create issues a fresh opaque token for a user.
func (s *Service) Create(ctx context.Context, user *models.User) (string, error) {
	const op = "session.Create"

	token := uuid.NewString()
	if err := s.cache.Set(ctx, tokenKey(token), user.UID, s.ttl); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Resolve maps a token back to its account and profile. The subscription
// expiry check runs here, so a lapsed trial is acted on the moment its
// owner shows up. A token whose account or profile has been removed is
// dropped from the store.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	const op = "session.Resolve"

	var userUID string
	found, err := s.cache.Get(ctx, tokenKey(token), &userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrNoSession
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.dropToken(ctx, token)
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err = s.subscriptions.ResolveExpiry(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.profiles.GetByUsername(ctx, user.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.dropToken(ctx, token)
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{Token: token, User: user, Profile: p}, nil
}

// Destroy logs a token out.
func (s *Service) Destroy(ctx context.Context, token string) error {
	const op = "session.Destroy"
	if err := s.cache.Invalidate(ctx, tokenKey(token)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) dropToken(ctx context.Context, token string) {
	if err := s.cache.Invalidate(ctx, tokenKey(token)); err != nil {
		s.log.Warn("failed to drop stale session token", sl.Err(err))
	}
}
