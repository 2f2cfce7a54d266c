package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/agendahub/agenda-api/internal/broadcast"
	"github.com/agendahub/agenda-api/internal/config"
	"github.com/agendahub/agenda-api/internal/email"
	"github.com/agendahub/agenda-api/internal/handler"
	appointmentHandler "github.com/agendahub/agenda-api/internal/handler/appointment"
	availabilityHandler "github.com/agendahub/agenda-api/internal/handler/availability"
	capabilityHandler "github.com/agendahub/agenda-api/internal/handler/capability"
	queueHandler "github.com/agendahub/agenda-api/internal/handler/queue"
	walkinHandler "github.com/agendahub/agenda-api/internal/handler/walkin"
	"github.com/agendahub/agenda-api/internal/middleware"
	"github.com/agendahub/agenda-api/internal/repository/postgres"
	"github.com/agendahub/agenda-api/internal/router"
	availabilityService "github.com/agendahub/agenda-api/internal/service/availability"
	bookingService "github.com/agendahub/agenda-api/internal/service/booking"
	lifecycleService "github.com/agendahub/agenda-api/internal/service/lifecycle"
	"github.com/agendahub/agenda-api/internal/service/notification"
	queueService "github.com/agendahub/agenda-api/internal/service/queue"
	rescheduleService "github.com/agendahub/agenda-api/internal/service/reschedule"
	walkinService "github.com/agendahub/agenda-api/internal/service/walkin"
	"github.com/agendahub/agenda-api/pkg/messaging/redis"
	"github.com/agendahub/agenda-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCPF(); err != nil {
		log.Fatal().Err(err).Msg("failed to register CPF validation")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	capabilityRepo := postgres.NewCapabilityRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	locationRepo := postgres.NewLocationRepository(db)

	// Queue broadcast transport
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	hub := broadcast.NewHub(broker, &log.Logger)
	if err := hub.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start broadcast hub")
	}
	defer hub.Stop()

	// Collaborators
	emailSvc := email.NewSMTPService(cfg.SMTP)
	notifier := notification.NewNotifier(emailSvc, clientRepo, &log.Logger)

	// Core services
	availabilitySvc := availabilityService.NewService(appointmentRepo, capabilityRepo, cfg.Cache.EligibleStaffTTL)
	bookingSvc := bookingService.NewService(appointmentRepo, clientRepo, serviceRepo, capabilityRepo, availabilitySvc, notifier, &log.Logger)
	queueSvc := queueService.NewService(appointmentRepo)
	lifecycleSvc := lifecycleService.NewService(appointmentRepo, clientRepo, capabilityRepo, locationRepo, queueSvc, hub, &log.Logger)
	walkinSvc := walkinService.NewService(appointmentRepo, staffRepo, capabilityRepo, &log.Logger)
	rescheduleSvc := rescheduleService.NewService(appointmentRepo, capabilityRepo, availabilitySvc, bookingSvc, &log.Logger)

	// Handlers
	h := handler.NewHandler(db)
	apptH := appointmentHandler.NewHandler(bookingSvc, lifecycleSvc, rescheduleSvc)
	availH := availabilityHandler.NewHandler(availabilitySvc)
	queueH := queueHandler.NewHandler(queueSvc, hub)
	walkinH := walkinHandler.NewHandler(walkinSvc)
	capH := capabilityHandler.NewHandler(capabilityRepo, availabilitySvc)

	identity := middleware.NewIdentity(cfg.JWT.Secret)

	r := router.New(router.Config{
		RateLimit:      rate.Limit(cfg.Server.RateLimit),
		RateBurst:      cfg.Server.RateBurst,
		RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
	}, identity, h)

	apptH.RegisterRoutes(r.Authenticated())
	availH.RegisterRoutes(r.Authenticated())
	queueH.RegisterRoutes(r.Authenticated())
	walkinH.RegisterRoutes(r.Authenticated())
	capH.RegisterRoutes(r.Authenticated())
	queueH.RegisterDisplayRoutes(r.Public())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
