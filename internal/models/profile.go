package models

import (
	"sort"
	"strings"
	"time"
)

// Background types of a profile page.
const (
	BackgroundColor = "color"
	BackgroundImage = "image"
	BackgroundVideo = "video"
)

// Visual theme presets. Unknown values fall back to "modern" in the renderer,
// so the store does not reject them.
const (
	ThemeModern      = "modern"
	ThemeRetro       = "retro"
	ThemeGlass       = "glass"
	ThemeMicrosoft90 = "microsoft90s"
	ThemeApple90     = "apple90s"
)

// ConsultationConfig is the profile-level configuration of the booking card.
// There is one per profile; the ConsultationItem marker in the content list
// only toggles its visibility. Slots are loose "HH:MM AM" strings kept sorted
// by time of day.
type ConsultationConfig struct {
	Enabled           bool     `json:"enabled"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Price             string   `json:"price"`
	Duration          string   `json:"duration"` // minutes, string-encoded
	CalendarConnected bool     `json:"calendarConnected"`
	CalendarID        string   `json:"calendarId,omitempty"`
	Availability      []string `json:"availability"` // weekday short names
	Slots             []string `json:"slots"`
	CardColor         string   `json:"cardColor"`
	ButtonColor       string   `json:"buttonColor,omitempty"`
	ButtonTextColor   string   `json:"buttonTextColor,omitempty"`
}

// Profile is the public page document of one user, keyed by the lowercase
// username. Legacy fields from the pre-unified schema are only populated when
// reading old documents and are cleared by the normalizer.
type Profile struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	IsPublished     bool   `json:"isPublished"`
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	AvatarURL       string `json:"avatarUrl"`
	BackgroundURL   string `json:"backgroundUrl"`
	BackgroundType  string `json:"backgroundType"` // one of the Background* values
	BackgroundColor string `json:"backgroundColor"`
	Theme           string `json:"theme"`

	HeaderHeight        int    `json:"headerHeight,omitempty"`
	HeaderImagePosition string `json:"headerImagePosition,omitempty"`
	HeaderImageFit      string `json:"headerImageFit,omitempty"`

	ButtonColor     string `json:"buttonColor,omitempty"`
	ButtonTextColor string `json:"buttonTextColor,omitempty"`

	Content      ContentList        `json:"content"`
	Consultation ConsultationConfig `json:"consultation"`

	VoiceWelcomeURL string `json:"voiceWelcomeUrl,omitempty"`
	StripeConnected bool   `json:"stripeConnected"`

	// Legacy pre-migration arrays, merged into Content on read.
	LegacyLinks    []LinkItem    `json:"links,omitempty"`
	LegacyProducts []ProductItem `json:"products,omitempty"`
}

// slotMinutes parses a loose "HH:MM AM|PM" slot string into minutes since
// midnight. Unparsable slots sort to the end of the day.
func slotMinutes(s string) int {
	t, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}

// SortSlots orders booking slots chronologically in place.
func SortSlots(slots []string) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slotMinutes(slots[i]) < slotMinutes(slots[j])
	})
}

// InsertSlot adds a slot keeping the list sorted. Exact duplicates are
// dropped.
func InsertSlot(slots []string, slot string) []string {
	for _, s := range slots {
		if s == slot {
			return slots
		}
	}
	slots = append(slots, slot)
	SortSlots(slots)
	return slots
}
