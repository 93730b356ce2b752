package vib3link

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/extendtrial"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/paymentlist"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/promocreate"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/promolist"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/setstatus"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/userlist"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/admin/userremove"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/analytics/click"
	analyticspurchase "github.com/Theailaunchapd/Vib3-link/internal/http/handlers/analytics/purchase"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/analytics/stats"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/analytics/view"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/auth/adminlogin"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/auth/login"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/auth/logout"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/auth/register"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/auth/skoollogin"
	profileget "github.com/Theailaunchapd/Vib3-link/internal/http/handlers/profile/get"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/profile/movecontent"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/profile/update"
	promovalidate "github.com/Theailaunchapd/Vib3-link/internal/http/handlers/promo/validate"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/session/me"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/subscription/applypromo"
	"github.com/Theailaunchapd/Vib3-link/internal/http/handlers/subscription/subscribe"
	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/jwt"
	analyticsservice "github.com/Theailaunchapd/Vib3-link/internal/services/analytics"
	authservice "github.com/Theailaunchapd/Vib3-link/internal/services/auth"
	profileservice "github.com/Theailaunchapd/Vib3-link/internal/services/profile"
	promoservice "github.com/Theailaunchapd/Vib3-link/internal/services/promo"
	purchaseservice "github.com/Theailaunchapd/Vib3-link/internal/services/purchase"
	sessionservice "github.com/Theailaunchapd/Vib3-link/internal/services/session"
	subscriptionservice "github.com/Theailaunchapd/Vib3-link/internal/services/subscription"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Services bundles everything the routes need.
type Services struct {
	Auth         *authservice.Service
	Session      *sessionservice.Service
	Profile      *profileservice.Service
	Promo        *promoservice.Service
	Subscription *subscriptionservice.Service
	Analytics    *analyticsservice.Service
	Purchase     *purchaseservice.Service
	Storage      *repository.Storage
	JWT          jwt.Maker
}

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Open endpoints, rate-limited against abuse.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(20, 40))
			r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/skool", skoollogin.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/logout", logout.New(logger, s.Session).ServeHTTP)
			r.Post("/admin/login", adminlogin.New(logger, s.Auth).ServeHTTP)
			r.Post("/promo/validate", promovalidate.New(logger, s.Promo).ServeHTTP)
			r.Get("/profiles/{username}", profileget.New(logger, s.Profile).ServeHTTP)
			r.Post("/analytics/{username}/view", view.New(logger, s.Analytics).ServeHTTP)
			r.Post("/analytics/{username}/click", click.New(logger, s.Analytics).ServeHTTP)
			r.Post("/analytics/{username}/purchase", analyticspurchase.New(logger, s.Purchase).ServeHTTP)
		})

		// Creator endpoints behind a session token.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(logger, s.Session))
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Put("/profile", update.New(logger, s.Profile).ServeHTTP)
			r.Post("/profile/content/move", movecontent.New(logger, s.Profile).ServeHTTP)
			r.Get("/analytics/stats", stats.New(logger, s.Analytics).ServeHTTP)
			r.Post("/subscription/subscribe", subscribe.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscription/promo", applypromo.New(logger, s.Subscription).ServeHTTP)
		})

		// Back-office endpoints behind the admin JWT.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminJWTMiddleware(logger, s.JWT))
			r.Get("/admin/users", userlist.New(logger, s.Storage).ServeHTTP)
			r.Delete("/admin/users/{uid}", userremove.New(logger, s.Auth).ServeHTTP)
			r.Put("/admin/users/{uid}/status", setstatus.New(logger, s.Subscription).ServeHTTP)
			r.Put("/admin/users/{uid}/trial", extendtrial.New(logger, s.Subscription).ServeHTTP)
			r.Post("/admin/promo", promocreate.New(logger, s.Promo).ServeHTTP)
			r.Get("/admin/promo", promolist.New(logger, s.Promo).ServeHTTP)
			r.Get("/admin/payments", paymentlist.New(logger, s.Storage).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
