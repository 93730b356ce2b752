package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

func TestNormalize_MigratesLegacyArrays(t *testing.T) {
	p := &models.Profile{
		Username: "creator",
		LegacyLinks: []models.LinkItem{
			{ID: "l1", Title: "Old Link", URL: "https://a", Active: true},
		},
		LegacyProducts: []models.ProductItem{
			{ID: "p1", Title: "Old Product", Price: "$10.00", ImageURL: "https://img/p1.png", Active: false},
		},
	}

	Normalize(p)

	require.Len(t, p.Content, 2)
	assert.Nil(t, p.LegacyLinks)
	assert.Nil(t, p.LegacyProducts)

	link, ok := p.Content[0].(models.LinkItem)
	require.True(t, ok)
	assert.Equal(t, "l1", link.ID)

	product, ok := p.Content[1].(models.ProductItem)
	require.True(t, ok)
	assert.True(t, product.Active, "legacy products are always shown")
	assert.Equal(t, []string{"https://img/p1.png"}, product.Images)
	assert.Equal(t, []models.ProductVariation{}, product.Variations)
	assert.Equal(t, "cover", product.ImageFit)
}

func TestNormalize_Idempotent(t *testing.T) {
	p := &models.Profile{
		Username: "creator",
		Content: models.ContentList{
			models.LinkItem{ID: "l1", Title: "Link", URL: "https://a", Active: true},
			models.ProductItem{ID: "p1", Title: "Prod", Price: "$5", Images: []string{"x"}, Active: true},
		},
		Consultation: models.ConsultationConfig{Slots: []string{"09:00 AM"}},
	}
	Normalize(p)
	first, err := json.Marshal(p)
	require.NoError(t, err)

	Normalize(p)
	second, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestNormalize_ConsultationMarker(t *testing.T) {
	t.Run("appends marker when booking enabled", func(t *testing.T) {
		p := &models.Profile{
			Consultation: models.ConsultationConfig{Enabled: true},
		}
		Normalize(p)
		require.Len(t, p.Content, 1)
		_, ok := p.Content[0].(models.ConsultationItem)
		assert.True(t, ok)
	})

	t.Run("keeps only the first marker", func(t *testing.T) {
		p := &models.Profile{
			Content: models.ContentList{
				models.ConsultationItem{Active: true},
				models.LinkItem{ID: "l1", Active: true},
				models.ConsultationItem{Active: false},
			},
			Consultation: models.ConsultationConfig{Enabled: true},
		}
		Normalize(p)
		require.Len(t, p.Content, 2)
		first, ok := p.Content[0].(models.ConsultationItem)
		require.True(t, ok)
		assert.True(t, first.Active)
	})

	t.Run("no marker when booking disabled", func(t *testing.T) {
		p := &models.Profile{}
		Normalize(p)
		assert.Empty(t, p.Content)
	})
}

func TestNormalize_SortsSlots(t *testing.T) {
	p := &models.Profile{
		Consultation: models.ConsultationConfig{
			Slots: []string{"02:00 PM", "09:00 AM", "02:00 PM"},
		},
	}
	Normalize(p)
	assert.Equal(t, []string{"09:00 AM", "02:00 PM"}, p.Consultation.Slots,
		"slots come out sorted with duplicates dropped")
}

func TestCreateDefault(t *testing.T) {
	user := &models.User{UID: "uid-1", Username: "alice"}
	p := CreateDefault(user)

	assert.Equal(t, "uid-1", p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.IsPublished)
	assert.Equal(t, models.ThemeModern, p.Theme)

	require.Len(t, p.Content, 1)
	link, ok := p.Content[0].(models.LinkItem)
	require.True(t, ok)
	assert.Equal(t, "My First Link", link.Title)
	assert.NotEmpty(t, link.ID)

	assert.False(t, p.Consultation.Enabled)
	assert.Equal(t, "1:1 Consultation", p.Consultation.Title)
	assert.Equal(t, []string{"09:00 AM", "10:00 AM", "02:00 PM"}, p.Consultation.Slots)
}
