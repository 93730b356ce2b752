// Package vib3link assembles the service: storage, migrations, cache,
// billing events, the payment provider, the business services and the HTTP
// server with its routes.
package vib3link

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/Theailaunchapd/Vib3-link/internal/cache"
	"github.com/Theailaunchapd/Vib3-link/internal/config"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/jwt"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/password"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/migrations"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/paymentprovider"
	"github.com/Theailaunchapd/Vib3-link/internal/rabbitmq"
	analyticsservice "github.com/Theailaunchapd/Vib3-link/internal/services/analytics"
	authservice "github.com/Theailaunchapd/Vib3-link/internal/services/auth"
	profileservice "github.com/Theailaunchapd/Vib3-link/internal/services/profile"
	promoservice "github.com/Theailaunchapd/Vib3-link/internal/services/promo"
	purchaseservice "github.com/Theailaunchapd/Vib3-link/internal/services/purchase"
	sessionservice "github.com/Theailaunchapd/Vib3-link/internal/services/session"
	subscriptionservice "github.com/Theailaunchapd/Vib3-link/internal/services/subscription"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// App is the assembled service.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New wires every component from the configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var publisher subscriptionservice.EventPublisher
	if cfg.AMQPAddress != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AMQPAddress, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn)
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("billing events disabled, no AMQP address configured")
	}

	var charger paymentprovider.Charger
	if cfg.Billing.StripeSecretKey != "" {
		charger = paymentprovider.NewClient(cfg.Billing.StripeSecretKey)
	} else {
		logger.Warn("no stripe key configured, using the simulated payment provider")
		charger = paymentprovider.NewSimulated(cfg.Billing.ChargeSuccessRate, time.Now().UnixNano())
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	promoService := promoservice.New(db, logger)
	profileService := profileservice.New(db, cacheRedis, logger)
	analyticsService := analyticsservice.New(db, logger)
	subscriptionService := subscriptionservice.New(
		db, db, promoService, charger, publisher, logger, cfg.Billing)
	purchaseService := purchaseservice.New(
		profileService, db, subscriptionService, analyticsService, logger)
	sessionService := sessionservice.New(
		db, subscriptionService, profileService, cacheRedis, logger, cfg.SessionTTL)
	authService := authservice.New(
		db, promoService, subscriptionService, profileService, sessionService,
		jwtMaker, cfg.Admin, logger)

	if err := seedDemoAccount(ctx, db, profileService); err != nil {
		logger.Warn("failed to seed the demo account", sl.Err(err))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Session:      sessionService,
		Profile:      profileService,
		Promo:        promoService,
		Subscription: subscriptionService,
		Analytics:    analyticsService,
		Purchase:     purchaseService,
		Storage:      db,
		JWT:          jwtMaker,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// seedDemoAccount creates the showcase account and its profile on first
// start. The account has a random unrecoverable password; nobody logs into
// it, its page is only viewed.
func seedDemoAccount(ctx context.Context, db *repository.Storage, profiles *profileservice.Service) error {
	const demoUsername = "demo"

	_, err := db.GetUserByUsername(ctx, demoUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := password.GetHash(uuid.NewString())
	if err != nil {
		return err
	}
	user := &models.User{
		Email:              "demo@vib3.link",
		Username:           demoUsername,
		PasswordHash:       hash,
		SubscriptionStatus: models.StatusActive,
	}
	user.UID, err = db.CreateUser(ctx, user)
	if err != nil {
		return err
	}
	return profiles.Save(ctx, profileservice.CreateDemo(user))
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		if a.amqpConn != nil {
			if cerr := a.amqpConn.Close(); cerr != nil {
				a.logger.Error("failed to close AMQP connection", sl.Err(cerr))
			}
		}
		return err
	}
}
