package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// NewServer binds handler to the configured port.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests.
// A nil listener listens on srv.Addr.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logg *logger.Logger) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", srv.Addr)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(logg.WithField(gctx, "addr", ln.Addr().String()), "store server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "store server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
