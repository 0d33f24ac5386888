package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowup/backend/config"
	"glowup/backend/controllers"
	"glowup/backend/middleware"
	"glowup/backend/progression"
	"glowup/backend/reminders"
	"glowup/backend/routes"
	"glowup/backend/utils"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// app is what every command runs against.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	engine *progression.Engine
}

var CLI struct {
	Version kong.VersionFlag

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API and the reminder scheduler." default:"1"`
	Migrate MigrateCmd `cmd:"" help:"Create or update the database schema."`
	Token   TokenCmd   `cmd:"" help:"Issue a bearer token for a user (development)."`
}

type ServeCmd struct {
	NoReminders bool `help:"Do not start the reminder scheduler."`
}

func (cmd *ServeCmd) Run(a *app) error {
	db, err := utils.InitDB(a.cfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	env := controllers.NewEnv(db, a.cfg, a.engine, time.Now, a.logger)

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "glowup",
		ErrorHandler: utils.ErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	server.Use(middleware.LoggingMiddleware(a.logger))

	// Setup routes
	routes.SetupRoutes(server, env)

	var scheduler *reminders.Scheduler
	if !cmd.NoReminders {
		notifier, err := newNotifier(a)
		if err != nil {
			return err
		}
		scheduler = reminders.NewScheduler(db, a.engine, notifier, time.Now, a.logger)
		if err := scheduler.Start(a.cfg.ReminderSchedule); err != nil {
			return err
		}
		a.logger.Info("reminder scheduler started", "schedule", a.cfg.ReminderSchedule)
	}

	errc := make(chan error, 1)
	go func() { errc <- server.Listen(":" + a.cfg.ServerPort) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-stop:
		a.logger.Info("shutting down", "signal", sig.String())
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	return server.ShutdownWithTimeout(10 * time.Second)
}

func newNotifier(a *app) (reminders.Notifier, error) {
	if a.cfg.SESFromEmail == "" {
		a.logger.Info("email reminders disabled: SES_FROM_EMAIL not configured")
		return reminders.LogNotifier{Logger: a.logger}, nil
	}
	n, err := reminders.NewSESNotifier(context.Background(), a.cfg.AWSRegion, a.cfg.SESFromEmail, a.cfg.SESFromName, a.cfg.AppBaseURL)
	if err != nil {
		return nil, err
	}
	a.logger.Info("email reminders enabled", "from", a.cfg.SESFromEmail, "region", a.cfg.AWSRegion)
	return n, nil
}

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(a *app) error {
	db, err := utils.InitDB(a.cfg)
	if err != nil {
		return err
	}
	a.logger.Info("schema migrated", "driver", a.cfg.DBDriver)
	if sqlDB, err := db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}

type TokenCmd struct {
	UserID uint `arg:"" help:"User id to sign the token for."`
}

func (cmd *TokenCmd) Run(a *app) error {
	token, err := utils.GenerateJWTToken(cmd.UserID, a.cfg)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("glowup"),
		kong.Description("30-day glow up challenge backend"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid CHALLENGE_TIMEZONE", "tz", cfg.TimeZone, "err", err)
	}

	if err := ctx.Run(&app{cfg: cfg, logger: logger, engine: progression.NewEngine(loc)}); err != nil {
		logger.Fatal("command failed", "cmd", ctx.Command(), "err", err)
	}
}
