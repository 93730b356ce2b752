// Package metrics registers the Prometheus counters of the service,
// exposed on /metrics next to the default Go and process collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Signups counts new accounts by signup path.
	Signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vib3_signups_total",
		Help: "Number of created accounts by signup path.",
	}, []string{"path"})

	// ProfileViews counts public profile page views.
	ProfileViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vib3_profile_views_total",
		Help: "Number of recorded public profile views.",
	})

	// LinkClicks counts public content block clicks.
	LinkClicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vib3_link_clicks_total",
		Help: "Number of recorded content block clicks.",
	})

	// ChargeAttempts counts auto-charge outcomes at trial expiry.
	ChargeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vib3_charge_attempts_total",
		Help: "Number of auto-charge attempts by outcome.",
	}, []string{"outcome"})

	// PromoRedemptions counts promo code redemption outcomes.
	PromoRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vib3_promo_redemptions_total",
		Help: "Number of promo code redemption attempts by outcome.",
	}, []string{"outcome"})
)
