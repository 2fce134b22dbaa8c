package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	apphttp "watchlist/internal/http"
	"watchlist/internal/repository/orm"
	"watchlist/internal/service"
	"watchlist/internal/session"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the watchlist web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(e *env, store *orm.Store) error {
				return serve(cmd.Context(), e, store)
			})
		},
	}
}

func serve(ctx context.Context, e *env, store *orm.Store) error {
	cfg, logger := e.cfg, e.logger
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return errors.New("auth secret is required (set WATCHLIST_AUTH_SECRET)")
	}

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	sessions, err := session.NewManager(session.Config{
		Secret: cfg.Auth.Secret,
		TTL:    cfg.SessionTTL(),
		Secure: cfg.Auth.SecureCookie,
	})
	if err != nil {
		return err
	}

	handler := apphttp.NewHandler(
		service.NewMovieService(store.Movies()),
		service.NewUserService(store.Users()),
		sessions,
		logger,
	)
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apphttp.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
	return nil
}
