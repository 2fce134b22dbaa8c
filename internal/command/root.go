// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"watchlist/internal/config"
	"watchlist/internal/repository/orm"
)

type envKey struct{}

// env is what every sub-command needs once configuration is loaded.
type env struct {
	cfg    config.Config
	logger *logrus.Logger
}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watchlist [command] [flags]",
		Short:        "A personal movie watchlist",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.Log.Level)
			logger.WithFields(logrus.Fields{
				"driver": cfg.Database.Driver,
				"addr":   cfg.Server.Addr,
			}).Debug("configuration loaded")
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, logger: logger}))
			return nil
		},
	}

	cmd.AddCommand(
		serveCommand(),
		initDBCommand(),
		forgeCommand(),
		adminCommand(),
		backupCommand(),
	)

	return cmd
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func loadEnv(ctx context.Context) (*env, error) {
	e, ok := ctx.Value(envKey{}).(*env)
	if !ok {
		return nil, errors.New("configuration was not loaded")
	}
	return e, nil
}

// openStore connects to the configured database. Callers close the store.
func openStore(e *env) (*orm.Store, error) {
	db, err := orm.Open(orm.Config{
		Driver: orm.Driver(e.cfg.Database.Driver),
		DSN:    e.cfg.Database.DSN,
		Debug:  e.cfg.Database.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return orm.NewStore(db), nil
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(ctx context.Context, fn func(e *env, store *orm.Store) error) (runErr error) {
	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}()
	return fn(e, store)
}
