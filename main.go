package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/server"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "dhlparcel",
	Short:   "DHL Parcel DE shipping client - create, cancel and print shipments",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP bridge",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.close(ctx)

	app.logger.Info("Starting DHL Parcel DE bridge",
		zap.Int("port", app.cfg.Port),
		zap.String("version", app.cfg.Version),
		zap.Bool("production", app.cfg.DHLProduction),
		zap.Bool("mock", app.cfg.DHLUseMock),
	)

	// Start HTTP server
	srv := server.New(server.Config{
		Port:    app.cfg.Port,
		Options: app.serviceOptions(),
	}, app.client, app.logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
