package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trafficwarden/aliyun"
	"trafficwarden/configuration"
	"trafficwarden/formatter"
	"trafficwarden/logger"
	"trafficwarden/trafficController"
)

const (
	packageName = "main"
)

func main() {
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trafficwarden",
		Short: "Start or stop instances based on per-region egress traffic",
		Long: `trafficwarden compares each region's aggregated egress traffic against
per-instance thresholds and starts or stops the configured instances
to keep every region inside its traffic budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// newRunCmd is the ad-hoc manual trigger: one control cycle, a decision
// table on stdout, and a success exit regardless of per-instance failures.
// Only a configuration failure exits nonzero.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one control cycle and print the decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, service, err := setup()
			if err != nil {
				return err
			}

			log := zap.L().With(zap.String("package", packageName))

			decisions, err := service.RunOnce(cmd.Context(), config.Instances)
			if err != nil {
				// fire-and-forget: the trigger still reports success,
				// the next scheduled run re-converges
				log.Error("Control cycle failed",
					zap.String("operation", "manual_run"),
					zap.Error(err),
				)
				return nil
			}

			formatter.PrintDecisionsTable(cmd.OutOrStdout(), decisions, time.Now())
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run control cycles on the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, service, err := setup()
			if err != nil {
				return err
			}

			log := zap.L().With(zap.String("package", packageName))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("Scheduled mode starting",
				zap.String("operation", "serve_start"),
				zap.String("schedule", config.Schedule),
			)

			err = service.RunLoop(ctx, config.Instances, config.Schedule)
			if err != nil && ctx.Err() == nil {
				log.Error("Scheduler failed",
					zap.String("operation", "serve_error"),
					zap.Error(err),
				)
				return err
			}

			log.Info("Shutdown complete",
				zap.String("operation", "serve_stop"),
			)
			return nil
		},
	}
}

// setup initializes the logger, loads configuration, and wires the signed
// request client into the controller. Any error here is fatal for the run
// and happens before a single network call is made.
func setup() (*configuration.Config, *trafficController.ControllerService, error) {
	if err := logger.Initialize("info"); err != nil {
		return nil, nil, err
	}

	log := zap.L().With(zap.String("package", packageName))

	config, err := configuration.Initialize()
	if err != nil {
		log.Error("Failed to load configuration",
			zap.String("operation", "config_load"),
			zap.Error(err),
		)
		return nil, nil, err
	}

	// re-init at the configured level now that configuration is available
	if config.LogLevel != "info" {
		if err := logger.Initialize(config.LogLevel); err != nil {
			return nil, nil, err
		}
	}

	client, err := aliyun.NewClient(config)
	if err != nil {
		log.Error("Failed to create API client",
			zap.String("operation", "client_creation"),
			zap.Error(err),
		)
		return nil, nil, err
	}

	service := trafficController.NewControllerService(client, client,
		zap.L().With(zap.String("package", "trafficController")))

	return config, service, nil
}
