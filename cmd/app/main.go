package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"hatid/cmd"
	httpin "hatid/internal/adapters/in/http"
	amqpout "hatid/internal/adapters/out/amqp"
	"hatid/internal/adapters/out/postgres/orderrepo"
	"hatid/internal/adapters/out/postgres/restaurantrepo"
	"hatid/internal/adapters/out/postgres/slarepo"
	"hatid/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configs, err := getConfigs()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	amqpConn, err := amqp.Dial(configs.AmqpURL)
	if err != nil {
		logger.Error("amqp connection failed", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, amqpConn, logger)
	if err != nil {
		logger.Error("composition root failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := amqpout.NewStatusConsumer(configs.AmqpURL, app.Watcher(), logger)
	go consumer.Run(ctx)

	jobManager := jobs.NewJobManager(
		app.CreateAssignRestaurantCommandHandler(),
		app.CreateRunSLAChecksCommandHandler(),
		app.OrderRepository(),
		app.AssignmentGracePeriod(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	server := httpin.NewServer(
		app.CreateProcessOrderPlacementCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateGetUnassignedOrdersQueryHandler(),
		app.CreateGetSLABreachesQueryHandler(),
	)
	server.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		if serveErr := e.Start(addr); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", serveErr)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&restaurantrepo.RestaurantDTO{},
		&restaurantrepo.RestaurantCityDTO{},
		&slarepo.CheckDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func getConfigs() (cmd.Config, error) {
	// Missing .env is fine in container deployments where the environment
	// is injected directly.
	_ = godotenv.Load(".env")

	config := cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),
		AmqpURL:    os.Getenv("AMQP_URL"),
	}

	var err error
	if config.AssignmentGracePeriod, err = durationEnv("ASSIGNMENT_GRACE_PERIOD"); err != nil {
		return cmd.Config{}, err
	}
	if config.CandidateTimeout, err = durationEnv("CANDIDATE_TIMEOUT"); err != nil {
		return cmd.Config{}, err
	}
	if config.AssignmentPollEvery, err = durationEnv("ASSIGNMENT_POLL_INTERVAL"); err != nil {
		return cmd.Config{}, err
	}
	if config.EscalationWait, err = durationEnv("ESCALATION_WAIT"); err != nil {
		return cmd.Config{}, err
	}
	if config.MaxCandidates, err = intEnv("MAX_CANDIDATES"); err != nil {
		return cmd.Config{}, err
	}
	if config.RiderIncentiveStep, err = floatEnv("RIDER_INCENTIVE_STEP"); err != nil {
		return cmd.Config{}, err
	}
	if config.CompensationAmount, err = floatEnv("COMPENSATION_AMOUNT"); err != nil {
		return cmd.Config{}, err
	}

	for _, contact := range strings.Split(os.Getenv("ADMIN_CONTACTS"), ",") {
		if trimmed := strings.TrimSpace(contact); trimmed != "" {
			config.AdminContacts = append(config.AdminContacts, trimmed)
		}
	}

	return config, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func intEnv(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func floatEnv(key string) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
