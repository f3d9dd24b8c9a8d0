// Package cli provides the Cobra-based command line for salesd.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/adminapi"
	"github.com/talkincode/salesledger/internal/app"
	"github.com/talkincode/salesledger/internal/webserver"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// NewRootCommand builds the salesd command tree. Running the root
// command without a subcommand serves the API.
func NewRootCommand() *cobra.Command {
	var (
		configFile string
		appConfig  *config.AppConfig
	)

	rootCmd := &cobra.Command{
		Use:           "salesd",
		Short:         "Product catalog, sales ledger and daily revenue API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			appConfig = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(appConfig)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config yaml file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(appConfig)
		},
	}
	rootCmd.AddCommand(serveCmd)

	initdbCmd := &cobra.Command{
		Use:   "initdb",
		Short: "Drop and recreate the database schema (all data is lost)",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.NewApplication(appConfig)
			defer application.Release()
			if err := application.Init(appConfig); err != nil {
				return err
			}
			if err := application.InitDb(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database schema recreated")
			return nil
		},
	}
	rootCmd.AddCommand(initdbCmd)

	printCmd := &cobra.Command{
		Use:   "print-config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), appConfig.DumpYaml())
			return nil
		},
	}
	rootCmd.AddCommand(printCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// serve runs the API until SIGINT/SIGTERM or a listener failure, then
// shuts down within the configured timeout.
func serve(cfg *config.AppConfig) error {
	application := app.NewApplication(cfg)
	defer application.Release()
	if err := application.Init(cfg); err != nil {
		return err
	}

	server := webserver.NewWebServer(application.Metrics(), cfg.System.Debug)
	adminapi.New(application).Register(server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Addr())
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	var serveErr error
	select {
	case s := <-sigc:
		zap.L().Info("shutdown signal", zap.String("signal", s.String()))
	case serveErr = <-errCh:
		if serveErr != nil {
			zap.L().Error("http server error", zap.Error(serveErr))
		}
	}

	if err := server.Shutdown(cfg.ShutdownTimeout()); err != nil {
		zap.L().Error("http shutdown error", zap.Error(err))
	}
	zap.L().Info("service stopped")
	return serveErr
}
