package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	reflowhttp "github.com/stefan123292/schedule-reflow/adapter/http"
)

var serverCfg reflowhttp.ServerConfig

var errServiceNotWired = errors.New("reflow: no application service wired, call cli.SetService before Execute")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the POST /reflow HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if service == nil {
			return errServiceNotWired
		}

		srv := reflowhttp.NewServer(serverCfg, service, logger, health)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			logger.Info("shutting down http server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serverCfg = reflowhttp.DefaultServerConfig()
	serveCmd.Flags().StringVar(&serverCfg.Addr, "addr", serverCfg.Addr, "address to listen on")
	rootCmd.AddCommand(serveCmd)
}
