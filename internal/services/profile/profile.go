// Package profile manages public page documents: the default template at
// signup, reads through the cache, writes through the content normalizer,
// and content reordering.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Theailaunchapd/Vib3-link/internal/cache"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// ErrItemNotFound is returned when a content operation names an id the
// profile does not contain.
var ErrItemNotFound = errors.New("content item not found")

// Move directions accepted by MoveContent.
const (
	MoveUp   = "up"
	MoveDown = "down"
	MoveTop  = "top"
)

const profileCacheTTL = 5 * time.Minute

// Repository defines the profile persistence the service needs.
type Repository interface {
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// Service is the profile document manager.
type Service struct {
	repo  Repository
	cache *cache.Cache
	log   *slog.Logger
}

// New creates the profile service.
func New(repo Repository, cch *cache.Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cch,
		log:   log,
	}
}

func cacheKey(username string) string {
	return "profile:" + strings.ToLower(username)
}

// Normalize migrates a profile document to the unified content schema in
// place and returns it. It is idempotent: running it on an already
// normalized document changes nothing.
//
// Legacy link and product arrays are appended to the content list, links
// first, products after, both preserving their internal order; legacy
// products are shown regardless of their stored flag since the old schema
// had no working toggle. A profile with the booking card enabled but no
// consultation marker gets one appended. Product blocks get their gallery
// backfilled from the single-image field, an empty variations list instead
// of null, and the default image fit. Booking slots come out sorted by time
// of day with exact duplicates dropped.
func Normalize(p *models.Profile) *models.Profile {
	for _, l := range p.LegacyLinks {
		if _, i := p.Content.Find(l.ID); i >= 0 {
			continue
		}
		p.Content = append(p.Content, l)
	}
	for _, prod := range p.LegacyProducts {
		if _, i := p.Content.Find(prod.ID); i >= 0 {
			continue
		}
		prod.Active = true
		p.Content = append(p.Content, prod)
	}
	p.LegacyLinks = nil
	p.LegacyProducts = nil

	if p.Content == nil {
		p.Content = models.ContentList{}
	}

	seenConsultation := false
	normalized := make(models.ContentList, 0, len(p.Content))
	for _, item := range p.Content {
		switch v := item.(type) {
		case models.ProductItem:
			if len(v.Images) == 0 && v.ImageURL != "" {
				v.Images = []string{v.ImageURL}
			}
			if v.Images == nil {
				v.Images = []string{}
			}
			if v.Variations == nil {
				v.Variations = []models.ProductVariation{}
			}
			if v.ImageFit == "" {
				v.ImageFit = "cover"
			}
			normalized = append(normalized, v)
		case models.ConsultationItem:
			if seenConsultation {
				continue
			}
			seenConsultation = true
			normalized = append(normalized, v)
		default:
			normalized = append(normalized, item)
		}
	}
	p.Content = normalized
	if p.Consultation.Enabled && !seenConsultation {
		p.Content = append(p.Content, models.ConsultationItem{Active: true})
	}

	if p.Consultation.Availability == nil {
		p.Consultation.Availability = []string{}
	}
	slots := make([]string, 0, len(p.Consultation.Slots))
	for _, slot := range p.Consultation.Slots {
		slots = models.InsertSlot(slots, slot)
	}
	p.Consultation.Slots = slots

	if p.BackgroundType == "" {
		p.BackgroundType = models.BackgroundColor
	}
	if p.Theme == "" {
		p.Theme = models.ThemeModern
	}
	return p
}

// CreateDefault builds the starter page every new account gets: one sample
// link, an initials avatar and a disabled booking card with workday
// availability.
func CreateDefault(user *models.User) *models.Profile {
	return &models.Profile{
		UserID:          user.UID,
		Username:        user.Username,
		IsPublished:     true,
		Name:            user.Username,
		Bio:             "Welcome to my page!",
		AvatarURL:       "https://ui-avatars.com/api/?name=" + url.QueryEscape(user.Username) + "&background=random&size=200",
		BackgroundType:  models.BackgroundColor,
		BackgroundColor: "#f3f4f6",
		Theme:           models.ThemeModern,
		Content: models.ContentList{
			models.LinkItem{
				ID:     uuid.NewString(),
				Title:  "My First Link",
				URL:    "https://google.com",
				Active: true,
			},
		},
		Consultation: models.ConsultationConfig{
			Enabled:      false,
			Title:        "1:1 Consultation",
			Description:  "Book a call with me",
			Price:        "$50.00",
			Duration:     "30",
			Availability: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			Slots:        []string{"09:00 AM", "10:00 AM", "02:00 PM"},
			CardColor:    "#fff7ed",
		},
	}
}

// CreateDemo builds the showcase page served under the demo account: a
// published profile with sample links, a product with one variation and an
// enabled booking card.
func CreateDemo(user *models.User) *models.Profile {
	p := CreateDefault(user)
	p.Name = "Vib3 Demo"
	p.Bio = "Links, products and bookings on one page."
	p.Theme = models.ThemeGlass
	p.Content = models.ContentList{
		models.LinkItem{
			ID:     uuid.NewString(),
			Title:  "Latest Video",
			URL:    "https://youtube.com/@vib3link",
			Active: true,
		},
		models.LinkItem{
			ID:     uuid.NewString(),
			Title:  "Newsletter",
			URL:    "https://vib3.link/newsletter",
			Active: true,
		},
		models.ProductItem{
			ID:          uuid.NewString(),
			Title:       "Preset Pack",
			Description: "12 editing presets for short-form video",
			Price:       "$9.99",
			Active:      true,
			Images:      []string{"https://vib3.link/static/preset-pack.jpg"},
			Variations: []models.ProductVariation{
				{
					ID:   uuid.NewString(),
					Name: "Edition",
					Options: []models.ProductVariationOption{
						{ID: uuid.NewString(), Name: "Standard", PriceModifier: 0},
						{ID: uuid.NewString(), Name: "Extended", PriceModifier: 5},
					},
				},
			},
		},
	}
	p.Consultation.Enabled = true
	return p
}

// GetByUsername returns the normalized profile of a username, served from
// the cache when possible. A corrupt stored document is logged and reported
// as absent so the public page 404s instead of erroring.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "profile.GetByUsername"

	var cached models.Profile
	found, err := s.cache.Get(ctx, cacheKey(username), &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", sl.Err(err),
			slog.String("username", username))
	}
	if found {
		return &cached, nil
	}

	p, err := s.repo.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			s.log.Error("dropping unreadable profile document", sl.Err(err),
				slog.String("username", username))
			return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	Normalize(p)

	if err := s.cache.Set(ctx, cacheKey(username), p, profileCacheTTL); err != nil {
		s.log.Warn("profile cache write failed", sl.Err(err),
			slog.String("username", username))
	}
	return p, nil
}

// Save normalizes and persists a profile document, then drops the cached
// copy so the next read sees the new version.
func (s *Service) Save(ctx context.Context, p *models.Profile) error {
	const op = "profile.Save"

	Normalize(p)
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, cacheKey(p.Username)); err != nil {
		s.log.Warn("profile cache invalidation failed", sl.Err(err),
			slog.String("username", p.Username))
	}
	return nil
}

// Evict drops the cached copy of a username's page. Callers that remove a
// profile behind the repository's back (the account delete cascade) use it
// so the public page stops serving immediately instead of after the TTL.
func (s *Service) Evict(ctx context.Context, username string) error {
	const op = "profile.Evict"

	if err := s.cache.Invalidate(ctx, cacheKey(username)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MoveContent reorders one content block of a profile: one step up, one
// step down, or straight to the top. Moving past either end is a no-op.
func (s *Service) MoveContent(ctx context.Context, username, itemID, direction string) (*models.Profile, error) {
	const op = "profile.MoveContent"

	p, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, i := p.Content.Find(itemID)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}

	switch direction {
	case MoveUp:
		if i > 0 {
			p.Content[i-1], p.Content[i] = p.Content[i], p.Content[i-1]
		}
	case MoveDown:
		if i < len(p.Content)-1 {
			p.Content[i+1], p.Content[i] = p.Content[i], p.Content[i+1]
		}
	case MoveTop:
		item := p.Content[i]
		p.Content = append(p.Content[:i], p.Content[i+1:]...)
		p.Content = append(models.ContentList{item}, p.Content...)
	default:
		return nil, fmt.Errorf("%s: unknown direction %q", op, direction)
	}

	if err := s.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
