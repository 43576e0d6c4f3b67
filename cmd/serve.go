package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/luzene/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve query normalization and linting over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, config, err := o.engine()
			if err != nil {
				return err
			}
			if !o.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			l, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen %s: %w", listen, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv := &http.Server{
				Handler:           server.New(engine, o.logger, config.QueryOptions()...).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			o.logger.Info("listening", zap.String("addr", l.Addr().String()))
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", l.Addr())
			return serve(ctx, srv, l)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "localhost:8080", "address to listen on")
	return cmd
}

// serve runs srv on l until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server, l net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
