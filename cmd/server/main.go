package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janisto/status-demo/internal/platform/config"
	applog "github.com/janisto/status-demo/internal/platform/logging"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		stop()
		_ = applog.Sync()
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, cfg *config.Config) error

func newRootCmd(runFn runFunc) *cobra.Command {
	var (
		envFiles []string
		host     string
		port     string
	)
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the status demo routes over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := applog.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			logConfig(cmd.Context(), cfg)
			return runFn(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load; missing files are ignored")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "interface to bind (overrides "+config.EnvHost+")")
	cmd.Flags().StringVarP(&port, "port", "p", config.DefaultPort, "port to listen on (overrides "+config.EnvPort+")")
	return cmd
}

func logConfig(ctx context.Context, cfg *config.Config) {
	if cfg.SecretDefault {
		applog.LogWarn(ctx, config.EnvSecretWord+" not set, using default")
	}
	applog.LogInfo(ctx, "configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.Bool("docsEnabled", cfg.DocsEnabled),
		zap.String("logLevel", cfg.LogLevel),
		zap.String("version", Version),
	)
}
