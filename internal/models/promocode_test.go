package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoCode_Redeemable(t *testing.T) {
	limit := 2
	tests := []struct {
		name string
		code PromoCode
		want bool
	}{
		{"active unlimited", PromoCode{Active: true}, true},
		{"active under limit", PromoCode{Active: true, UsageLimit: &limit, UsedCount: 1}, true},
		{"active at limit", PromoCode{Active: true, UsageLimit: &limit, UsedCount: 2}, false},
		{"inactive", PromoCode{Active: false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Redeemable())
		})
	}
}

func TestPromoCode_JSONFieldNames(t *testing.T) {
	limit := 5
	code := PromoCode{
		ID:          "id-1",
		Code:        "LAUNCH50",
		Description: "launch promo",
		Type:        PromoLifetime,
		UsageLimit:  &limit,
		UsedCount:   1,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "admin",
		Active:      true,
	}
	data, err := json.Marshal(code)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "id-1",
		"code": "LAUNCH50",
		"description": "launch promo",
		"type": "lifetime",
		"usage_limit": 5,
		"used_count": 1,
		"created_at": "2026-01-01T00:00:00Z",
		"created_by": "admin",
		"active": true
	}`, string(data))
}
