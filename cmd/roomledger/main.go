package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	_ "github.com/vuthy55/roomledger/cmd/docs"
	"github.com/vuthy55/roomledger/internal/adapters/database/pgsql"
	"github.com/vuthy55/roomledger/internal/adapters/events/kafka"
	"github.com/vuthy55/roomledger/internal/adapters/notify"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/core/services"
	"github.com/vuthy55/roomledger/internal/handlers"
	"github.com/vuthy55/roomledger/internal/middleware"
	"github.com/vuthy55/roomledger/pkg/config"
	"github.com/vuthy55/roomledger/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title RoomLedger API
// @version 1.0
// @description Metered-usage token ledger and room lifecycle backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisClient := database.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher portssvc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka event publisher configured", slog.Int("brokers", len(cfg.KafkaBrokers)))
	} else {
		publisher = notify.NewLogPublisher(logger)
		logger.Info("KAFKA_BROKERS not set; events will be logged only.")
	}
	notifier := notify.NewLogNotifier(logger)

	repos := portsrepo.RepositoryProvider{
		Transactor:      pgsql.NewPgxTransactor(dbPool),
		AccountRepo:     pgsql.NewPgxAccountRepository(dbPool),
		LedgerRepo:      pgsql.NewPgxLedgerRepository(dbPool),
		RoomRepo:        pgsql.NewPgxRoomRepository(dbPool),
		ParticipantRepo: pgsql.NewPgxParticipantRepository(dbPool),
		UserRepo:        pgsql.NewPgxUserRepository(dbPool),
		SettingsRepo:    pgsql.NewPgxSettingsRepository(dbPool),
	}

	container := services.NewServiceContainer(cfg, repos, redisClient, notifier, publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending migrations using a temporary database/sql
// connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
