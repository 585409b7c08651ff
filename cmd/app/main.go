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

	"gasdelivery/cmd"
	"gasdelivery/internal/adapters/out/kafka"
	"gasdelivery/internal/adapters/out/postgres"
	"gasdelivery/internal/adapters/out/redis"
	"gasdelivery/internal/adapters/out/sheets"
	"gasdelivery/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// background workers outlive the HTTP server so late effects still flush
	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	gormDB, err := gorm.Open(gormpostgres.Open(dsn(configs)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB, configs.DBMigrateUsers); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	redisClient := redis.NewClient(redis.Config{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	defer redisClient.Close()

	publisher, waitPublisher := newPublisher(bgCtx, configs, logger)
	table := newMirrorTable(signalCtx, configs, logger)

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, publisher, table, logger)
	if err = app.Start(bgCtx); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	if err = app.CreateHTTPServer().Register(signalCtx, e); err != nil {
		log.Fatalf("Error registering routes: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-signalCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	cancelBg()
	app.Stop()
	waitPublisher()
}

func newPublisher(ctx context.Context, configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if len(configs.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, events are only logged")
		return kafka.NewLogPublisher(logger), func() {}
	}
	p := kafka.NewPublisher(kafka.Config{
		Brokers:  configs.KafkaBrokers,
		Topic:    configs.KafkaTopic,
		Producer: "gas-delivery",
	}, logger)
	p.Start(ctx)
	return p, p.Wait
}

func newMirrorTable(ctx context.Context, configs cmd.Config, logger *slog.Logger) ports.MirrorTable {
	if configs.SheetsSpreadsheetID == "" {
		logger.Warn("SHEETS_SPREADSHEET_ID not set, payment mirror kept in memory")
		return sheets.NewMemoryTable()
	}
	table, err := sheets.NewTable(ctx, sheets.Config{
		SpreadsheetID:   configs.SheetsSpreadsheetID,
		CredentialsFile: configs.SheetsCredentialsFile,
		PendingTab:      configs.SheetsPendingTab,
		CompletedTab:    configs.SheetsCompletedTab,
	})
	if err != nil {
		log.Fatalf("Error connecting to spreadsheet: %v", err)
	}
	return table
}

func dsn(configs cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)
}

func getConfigs() cmd.Config {
	// .env is optional and never overrides variables already set in the environment
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		HTTPPort:       envOr("HTTP_PORT", "8080"),
		DBHost:         envOr("DB_HOST", "localhost"),
		DBPort:         envOr("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSslMode:      envOr("DB_SSLMODE", "disable"),
		DBMigrateUsers: envBool("DB_MIGRATE_USERS"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		KafkaBrokers: envList("KAFKA_BROKERS"),
		KafkaTopic:   envOr("KAFKA_TOPIC", "gas-delivery.orders"),

		SheetsSpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetsCredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
		SheetsPendingTab:      envOr("SHEETS_PENDING_TAB", "Pending"),
		SheetsCompletedTab:    envOr("SHEETS_COMPLETED_TAB", "Completed"),
		MirrorQueueSize:       envInt("MIRROR_QUEUE_SIZE", 1024),

		MirrorHeartbeatSpec:    envOr("MIRROR_HEARTBEAT_SPEC", "0 */5 * * * *"),
		MirrorHeartbeatTimeout: envDuration("MIRROR_HEARTBEAT_TIMEOUT", 2*time.Minute),
		DispatchSpec:           envOr("DISPATCH_SPEC", "*/15 * * * * *"),
		DispatchBatch:          envInt("DISPATCH_BATCH", 50),

		DeliveryCharge:     envDecimal("DELIVERY_CHARGE", "250"),
		UrgentFee:          envDecimal("URGENT_DELIVERY_FEE", "150"),
		DepositPerCylinder: envDecimal("SECURITY_DEPOSIT_PER_CYLINDER", "1500"),

		PaymentGatewayURL: os.Getenv("PAYMENT_GATEWAY_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func envDecimal(key, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(envOr(key, fallback))
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
