package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/config"
	"petstore/internal/database"
	"petstore/internal/handlers"
	"petstore/internal/invoice"
	"petstore/internal/logger"
	"petstore/internal/metrics"
	"petstore/internal/middleware"
	"petstore/internal/notify"
	"petstore/internal/payment"
	"petstore/internal/routes"
	"petstore/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	appLog := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			log.Warn().Err(err).Msg("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.DBName)
	log.Info().Str("db", db.Name()).Msg("database selected")

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("index setup incomplete")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		sentrygin.New(sentrygin.Options{Repanic: true}),
	)

	routes.Register(r, routes.Deps{
		Users:         database.NewUserStore(db),
		Carts:         database.NewCartStore(db),
		Addresses:     database.NewAddressStore(db),
		Orders:        database.NewOrderStore(db),
		Categories:    database.NewCategoryStore(db),
		SubCategories: database.NewSubCategoryStore(db),
		Products:      database.NewProductStore(db),
		DB:            database.NewHealth(client),

		Tokens:   token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Notifier: notify.NewLogNotifier(appLog),
		Payments: payment.NewStripeGateway(payment.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.StripeCurrency,
			FrontendURL:   cfg.FrontendURL,
		}),
		Invoices: invoice.NewRenderer("Petstore"),
		Uploads:  handlers.NewUploadStorage(cfg.UploadDir, cfg.PublicBaseURL),

		Cookies:     handlers.CookieOptions{Secure: cfg.CookieSecure},
		FrontendURL: cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
