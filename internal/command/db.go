package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"watchlist/internal/repository/orm"
	"watchlist/internal/service"
)

func initDBCommand() *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(e *env, store *orm.Store) error {
				if drop {
					if err := store.Drop(cmd.Context()); err != nil {
						return err
					}
					e.logger.Info("dropped existing tables")
				}
				if err := store.Migrate(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Initialized database.")
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop existing tables before creating them")
	return cmd
}

func forgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forge",
		Short: "Seed the database with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(e *env, store *orm.Store) error {
				ctx := cmd.Context()
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				err := store.Transaction(ctx, func(tx *orm.Store) error {
					return service.Seed(ctx, tx.Users(), tx.Movies())
				})
				if err != nil {
					return err
				}
				e.logger.WithField("movies", len(service.DemoMovies)).Info("seeded demo data")
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Done.")
				return err
			})
		},
	}
}
