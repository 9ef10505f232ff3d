package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := getConfigs()
	slogger := newLogger(configs.LogLevel)

	gormDB := mustGormOpen(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, slogger)
	if err != nil {
		log.Fatalf("compose: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slogger.Error("close", "error", err)
		}
	}()

	go func() {
		if err := app.Hub().Run(ctx); err != nil {
			slogger.Error("realtime hub stopped", "error", err)
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs, slogger)
}

func getConfigs() cmd.Config {
	// .env is optional; the environment always wins.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return config
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	return gormDB
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, slogger *slog.Logger) {
	server, err := app.CreateServer()
	if err != nil {
		log.Fatalf("http server: %v", err)
	}
	gateway := app.CreateGateway()

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = configs.IPExtractor()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slogger.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slogger.Info("request", attrs...)
			return nil
		},
	}))
	server.RegisterRoutes(e, gateway.Handle)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	slogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slogger.Error("http shutdown", "error", err)
	}
}
