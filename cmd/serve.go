package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/lllkojlhuk/sushikub/config"
	"github.com/lllkojlhuk/sushikub/filestore"
	"github.com/lllkojlhuk/sushikub/frontpad"
	"github.com/lllkojlhuk/sushikub/handlers"
	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/scheduler"
	"github.com/lllkojlhuk/sushikub/utils"
)

// NewServeCmd creates the serve command, the main entry point of the backend.
func NewServeCmd(cfg *config.Config, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg, version)
		},
	}
}

func runServer(cfg *config.Config, version string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	utils.SetJWTKey(cfg.SecretKey)

	if err := models.Initialize(cfg.DataDir); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := models.Close(); err != nil {
			log.Errorf("Failed to close database: %v", err)
		}
	}()

	storageConfig, err := filestore.ParseStorageConfigFromEnv(cfg.StaticDir)
	if err != nil {
		return fmt.Errorf("failed to parse storage configuration: %w", err)
	}
	if err := storageConfig.Validate(); err != nil {
		return fmt.Errorf("invalid storage configuration: %w", err)
	}
	backend, err := storageConfig.CreateBackend()
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	log.Infof("Serving static files from the '%s' backend", storageConfig.BackendType)

	fpClient := frontpad.NewClient(cfg.FrontpadBaseURL, cfg.FrontpadSecret)
	if !fpClient.Configured() {
		log.Warn("Frontpad secret is not configured, order relay is disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      fmt.Sprintf("sushikub %s", version),
		ServerHeader: "sushikub",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	handlers.Initialize(app, cfg, backend, fpClient)

	cronScheduler := scheduler.NewCronScheduler()
	sweepJob := &scheduler.CacheSweepJob{
		Cache:         handlers.GetImageCache(),
		RetentionDays: cfg.CacheRetentionDays,
	}
	if err := cronScheduler.AddJob(sweepJob.Name(), scheduler.CacheSweepSchedule, sweepJob); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	metricsJob := scheduler.FuncJob{JobName: "metrics-refresh", Func: func() error {
		handlers.UpdateMetrics()
		return nil
	}}
	if err := cronScheduler.AddJob(metricsJob.Name(), "@hourly", metricsJob); err != nil {
		return fmt.Errorf("failed to schedule metrics refresh: %w", err)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	addr := cfg.Host + ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(addr)
	}()
	log.Infof("Server listening on %s (env: %s)", addr, cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
		return app.Shutdown()
	}
}
