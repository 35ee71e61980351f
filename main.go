package main

import (
	"ayursutra/authentication"
	"ayursutra/configuration"
	"ayursutra/controllers"
	"ayursutra/notification"
	"ayursutra/repository"
	"ayursutra/routes"
	"ayursutra/services"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configuration.Load()
	log := configuration.NewLogger(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := configuration.ConfigDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := configuration.InitRedis(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	repo := repository.New(db)
	mailer := notification.NewMailer(notification.NewSMTPDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword), cfg.MailFrom)
	outbox := notification.NewOutbox(repo, mailer, cfg.MailMaxAttempts, log)

	scheduler, err := outbox.StartRetryCron(ctx, cfg.MailRetryInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start notification retry cron")
	}
	defer scheduler.Stop()

	patientSvc := services.NewPatientService(repo, repo, outbox, mailer, cfg.MailFallbackAddress, log)
	doctorSvc := services.NewDoctorService(repo, log)

	sessions := authentication.NewSessions(authentication.RedisKV{Client: rdb}, cfg.JWTSecret, cfg.SessionTTL)
	sessionCtl := controllers.NewSessionController(sessions, cfg.IsProduction(), log)

	limiter := authentication.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginBurst)
	go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	r := routes.AppRoutes(routes.Handlers{
		Patients:     controllers.NewPatientController(patientSvc, sessionCtl, log),
		Doctors:      controllers.NewDoctorController(doctorSvc, sessionCtl, log),
		Sessions:     sessionCtl,
		Health:       controllers.NewHealth(repo, controllers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })),
		Auth:         authentication.NewAuthenticator(authentication.NewPatientResolver(repo), sessions, limiter, log),
		LoginLimiter: limiter,
	}, cfg.AllowedOrigins, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
