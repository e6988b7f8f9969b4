package initializers

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kamgaa/lab-reservation/internal/config"
	"github.com/kamgaa/lab-reservation/internal/events"
	"github.com/kamgaa/lab-reservation/internal/handlers"
	"github.com/kamgaa/lab-reservation/internal/handlers/mdlwr"
	"github.com/kamgaa/lab-reservation/internal/metrics"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func startGetEnv() {
	if os.Getenv("ENVIRONMENT") == "PROD" {
		return
	}

	err := godotenv.Load("local.env")

	if err != nil {
		log.Fatalf("Error loading .env file")
	}
}

func startConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	return cfg
}

func startLogger(levelStr string) *zap.Logger {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Error initializing zap logger: %v", err)
	}

	return zapLogger
}

func startPostgres(dsn string) *gorm.DB {
	// users.team_name is "" until a user joins a team, so no FK to teams
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		log.Fatalf("Error initializing postgres: %v", err)
	}

	return db
}

func gormAutoMigrate(db *gorm.DB, cfg config.Config) {
	if !cfg.IsLocal() {
		return
	}

	if errAuto := db.AutoMigrate(
		&team.Team{},
		&user.User{},
		&reservation.Reservation{},
	); errAuto != nil {
		log.Fatalf("AutoMigrate failed: %v", errAuto)
		return
	}
}

func seedTeams(teamRepo team.TeamsRepo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := teamRepo.EnsureTeams(ctx, team.DefaultTeams); err != nil {
		log.Fatalf("Error seeding teams: %v", err)
	}
}

// startPublisher falls back to a no-op publisher when RABBIT_URL is unset.
func startPublisher(cfg config.Config, logger *zap.SugaredLogger) events.Publisher {
	if cfg.RabbitURL == "" {
		logger.Info("RABBIT_URL not set, reservation events are not published")
		return events.NoopPublisher{}
	}

	pub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.ReservationExchange)
	if err != nil {
		log.Fatalf("Error initializing rabbitmq publisher: %v", err)
	}

	return pub
}

func startAuth(cfg config.Config, userRepo user.UsersRepo) (*jwt.GinJWTMiddleware, *jwt.GinJWTMiddleware) {
	opts := mdlwr.AuthOptions{
		Secret:  cfg.JWTSecret,
		Timeout: cfg.JWTTimeout,
		IsAdmin: cfg.IsAdmin,
	}

	auth, err := mdlwr.GetAuthMiddleware(opts, userRepo)
	if err != nil {
		log.Fatalf("Error initializing auth middleware: %v", err)
	}

	admin, err := mdlwr.GetAdminAuthMiddleware(opts, userRepo)
	if err != nil {
		log.Fatalf("Error initializing admin middleware: %v", err)
	}

	return auth, admin
}

func initUserRoutes(router *gin.Engine, auth *jwt.GinJWTMiddleware, userHandler *handlers.UserHandler) {
	usersGroup := router.Group("/users")

	usersGroup.POST("/register", userHandler.Register)
	usersGroup.POST("/login", auth.LoginHandler)
	usersGroup.GET("/refresh", auth.RefreshHandler)

	authorized := usersGroup.Group("", auth.MiddlewareFunc())
	authorized.GET("/me", userHandler.Me)
	authorized.PUT("/profile", userHandler.UpdateProfile)
}

func initTeamRoutes(router *gin.Engine, teamHandler *handlers.TeamHandler) {
	teamsGroup := router.Group("/teams")
	teamsGroup.GET("", teamHandler.ListTeams)
	teamsGroup.GET("/get", teamHandler.GetTeam)
	teamsGroup.GET("/quota", teamHandler.Quota)
}

func initReservationRoutes(router *gin.Engine, auth *jwt.GinJWTMiddleware, reservationHandler *handlers.ReservationHandler) {
	reservationsGroup := router.Group("/reservations")
	reservationsGroup.GET("", reservationHandler.ListByDate)
	reservationsGroup.GET("/schedule", reservationHandler.Schedule)

	authorized := reservationsGroup.Group("", auth.MiddlewareFunc())
	authorized.POST("", reservationHandler.Reserve)
	authorized.GET("/mine", reservationHandler.Mine)
}

func initAdminRoutes(router *gin.Engine, admin *jwt.GinJWTMiddleware, adminHandler *handlers.AdminHandler) {
	adminGroup := router.Group("/admin", admin.MiddlewareFunc())
	adminGroup.GET("/reservations", adminHandler.ListReservations)
	adminGroup.DELETE("/reservations/:id", adminHandler.DeleteReservation)
	adminGroup.GET("/users", adminHandler.ListUsers)
}

func initMetricsMdlwr(router *gin.Engine) {
	router.Use(metrics.GinMiddleware)
}

// initMetricsServer serves /metrics and pprof on the internal port.
func initMetricsServer(port string) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", metrics.Handler())
	initpprof(metricsRouter)

	return &http.Server{
		Addr:    ":" + port,
		Handler: metricsRouter,
	}
}

func initpprof(router *gin.Engine) {
	router.GET("/debug/pprof/*name", func(c *gin.Context) {
		switch name := strings.TrimPrefix(c.Param("name"), "/"); name {
		case "":
			pprof.Index(c.Writer, c.Request)
		case "cmdline":
			pprof.Cmdline(c.Writer, c.Request)
		case "profile":
			pprof.Profile(c.Writer, c.Request)
		case "symbol":
			pprof.Symbol(c.Writer, c.Request)
		case "trace":
			pprof.Trace(c.Writer, c.Request)
		default:
			pprof.Handler(name).ServeHTTP(c.Writer, c.Request)
		}
	})
}
