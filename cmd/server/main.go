// Command server runs the Airban Doors API.
//
//	@title			Airban Doors API
//	@version		1.0
//	@description	Catalog, orders, enquiries and newsletter for the Airban Doors storefront.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/HansOheneba/airban-api/internal/cache"
	"github.com/HansOheneba/airban-api/internal/config"
	httpapi "github.com/HansOheneba/airban-api/internal/http"
	"github.com/HansOheneba/airban-api/internal/imagehost"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/observability"
	"github.com/HansOheneba/airban-api/internal/repo"
	"github.com/HansOheneba/airban-api/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		sysutil.SetupLogging(os.Stderr, "info", false)
		log.Fatal().Err(err).Msg("load config")
	}
	lg := sysutil.SetupLogging(os.Stdout, cfg.LogLevel, cfg.LogPretty)

	ctx := lg.WithContext(context.Background())

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version, cfg.GinMode)
	if err != nil {
		lg.Fatal().Err(err).Msg("setup tracing")
	}

	db, err := repo.Open(cfg.DB, repo.OpenOptions{Tracing: cfg.OTEL.Enabled})
	if err != nil {
		lg.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		lg.Fatal().Err(err).Msg("migrate database")
	}

	// Notifications: email through Resend (or the log), plus Kafka when brokers are set.
	var mailer notify.Mailer = notify.LogMailer{Logger: lg}
	if cfg.Mail.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cfg.Mail.ResendAPIKey)
	} else {
		lg.Warn().Msg("RESEND_API_KEY not set; emails will be logged")
	}
	composer, err := notify.NewComposer(notify.MailSettings{
		FromOrders:   cfg.Mail.FromOrders,
		FromGeneral:  cfg.Mail.FromGeneral,
		AdminEmail:   cfg.Mail.AdminEmail,
		DashboardURL: cfg.Mail.AdminDashboardURL,
	})
	if err != nil {
		lg.Fatal().Err(err).Msg("load email templates")
	}
	dispatcher := notify.NewDispatcher(mailer, composer, notify.DispatcherOptions{
		QueueSize:   cfg.Notify.QueueSize,
		Workers:     cfg.Notify.Workers,
		SendTimeout: cfg.Notify.SendTimeout,
		Logger:      lg,
	})
	dispatcher.Start(ctx)

	notifiers := notify.Fanout{dispatcher}
	var publisher *notify.KafkaPublisher
	if len(cfg.Events.KafkaBrokers) > 0 {
		w := notify.NewKafkaWriter(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic, lg)
		publisher = notify.NewKafkaPublisher(w, lg)
		notifiers = append(notifiers, publisher)
		lg.Info().Strs("brokers", cfg.Events.KafkaBrokers).Str("topic", cfg.Events.KafkaTopic).Msg("publishing events to kafka")
	}

	deps := httpapi.Deps{DB: db, Notifier: notifiers}

	var redisCache *cache.RedisCache
	if cfg.Cache.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, cfg.OTEL.ServiceName)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			lg.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unreachable; catalog reads fall through to the database")
		}
		cancel()
		deps.Cache = redisCache
	}

	if images := imagehost.New(cfg.ImageHost.APIKey, cfg.ImageHost.UploadURL); images.Configured() {
		deps.Images = images
	} else {
		lg.Warn().Msg("IMGBB_API_KEY not set; image uploads disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		lg.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Str("db", cfg.DB.Driver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server")
		}
	}()

	<-stop
	lg.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("http shutdown")
	}
	// Handlers are done; drain queued emails before closing the sinks.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("notification drain")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			lg.Error().Err(err).Msg("kafka close")
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			lg.Error().Err(err).Msg("redis close")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("otel shutdown")
	}
	lg.Info().Msg("bye")
}
