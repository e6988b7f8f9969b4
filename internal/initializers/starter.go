package initializers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/internal/events"
	"github.com/kamgaa/lab-reservation/internal/handlers"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
)

func RunLabReservation() {
	startGetEnv()

	cfg := startConfig()
	policy, err := cfg.Policy()
	if err != nil {
		log.Fatalf("Invalid admission config: %v", err)
	}

	zapLogger := startLogger(cfg.LogLevel)

	defer func(zapLogger *zap.Logger) {
		err := zapLogger.Sync()
		if err != nil {
			log.Println("Error syncing zap logger:", err)
		}
	}(zapLogger)

	logger := zapLogger.Sugar()
	db := startPostgres(cfg.PGDSN)

	gormAutoMigrate(db, cfg)

	userRepo := user.NewUsersRepoPg(logger, db)
	teamRepo := team.NewTeamsRepoPg(logger, db)
	reservationRepo := reservation.NewReservationsRepoPg(logger, db)

	seedTeams(teamRepo)

	publisher := startPublisher(cfg, logger)
	defer func(publisher events.Publisher) {
		if err := publisher.Close(); err != nil {
			logger.Warnw("error closing publisher", "err", err)
		}
	}(publisher)
	notifier := events.NewNotifier(logger, publisher)

	engine := admission.NewEngine(logger, reservationRepo, policy, admission.RealClock{})

	userHandler := handlers.NewUserHandler(logger, userRepo, teamRepo)
	teamHandler := handlers.NewTeamHandler(logger, teamRepo, engine)
	reservationHandler := handlers.NewReservationHandler(logger, engine, reservationRepo, teamRepo, notifier)
	adminHandler := handlers.NewAdminHandler(logger, reservationRepo, userRepo, notifier)

	auth, admin := startAuth(cfg, userRepo)

	router := gin.New()
	initMetricsMdlwr(router)

	router.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics" && c.Request.Method == "GET"
		},
	}))

	router.Use(ginzap.RecoveryWithZap(zapLogger, true))

	initUserRoutes(router, auth, userHandler)
	initTeamRoutes(router, teamHandler)
	initReservationRoutes(router, auth, reservationHandler)
	initAdminRoutes(router, admin, adminHandler)
	metricsSrv := initMetricsServer(cfg.MetricsPort)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting main server on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	go func() {
		logger.Info("Starting metrics server on port " + cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down the server")

	wg := &sync.WaitGroup{}

	for _, s := range []*http.Server{srv, metricsSrv} {
		wg.Add(1)
		go func(s *http.Server) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				logger.Errorw("the server was forced to shutdown", "addr", s.Addr, "err", err)
			}
		}(s)
	}

	wg.Wait()

	logger.Info("Server exited")
}
