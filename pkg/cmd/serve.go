package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/server"
	"github.com/nekruzvatanshoev/carprice/pkg/graceful"
)

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func init() {
	ServeCmd.Flags().String("address", "", "listen address, e.g. :8080")
	_ = v.BindPFlag("server.address", ServeCmd.Flags().Lookup("address"))
}

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		client, err := predict.New(predict.Options{
			BaseURL: a.cfg.API.BaseURL,
			Path:    a.cfg.API.PredictPath,
			Timeout: a.cfg.API.Timeout,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewHTTPServer(a.cfg.Server.Address, server.Deps{
			Schema:     a.schema,
			Predictor:  client,
			Health:     client,
			Log:        a.log,
			SessionTTL: a.cfg.Server.SessionTTL,
		})

		janitorCtx, cancelJanitor := context.WithCancel(ctx)
		defer cancelJanitor()
		go srv.Sessions.Run(janitorCtx, janitorInterval(a.cfg.Server.SessionTTL))

		a.log.Info("started serve cmd",
			slog.String("variant", a.schema.Name),
			slog.String("prediction_endpoint", client.Endpoint()),
		)

		if err := graceful.ListenAndServe(ctx, a.log, srv.Server, a.cfg.Server.ShutdownTimeout); err != nil {
			return err
		}

		a.log.Info("server stopped")
		return nil
	}
}

// janitorInterval sweeps a few times per TTL, but not more than once a second.
func janitorInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 4; interval > time.Second {
		return interval
	}
	return time.Second
}
