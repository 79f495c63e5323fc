package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
	"github.com/nekruzvatanshoev/carprice/pkg/config"
	"github.com/nekruzvatanshoev/carprice/pkg/logger"
)

var RootCmd = &cobra.Command{
	Use:           RootCmdName,
	Short:         RootCmdShort,
	Long:          RootCmdLong,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgFile string
	v       = config.NewViper()
)

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to a YAML config file")
	flags.String("variant", "", "form variant: classic, extended or custom")
	flags.String("api-url", "", "base URL of the prediction service")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	_ = v.BindPFlag("form.variant", flags.Lookup("variant"))
	_ = v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	RootCmd.AddCommand(ServeCmd, PredictCmd, FieldsCmd)
}

// app is what every subcommand needs after startup.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	schema form.Schema
	closer io.Closer
	sentry bool
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}

	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
	}

	log, closer, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Sentry: sentryEnabled,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	return &app{cfg: cfg, log: log, schema: schema, closer: closer, sentry: sentryEnabled}, nil
}

func (a *app) Close() {
	if a.sentry {
		sentry.Flush(2 * time.Second)
	}
	_ = a.closer.Close()
}
