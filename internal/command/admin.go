package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"watchlist/internal/domain"
	"watchlist/internal/repository/orm"
	"watchlist/internal/service"
)

func adminCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create or update the administrator account",
		Long: "Sets the login credentials of the site owner, creating the account if the\n" +
			"database has none. Missing values are prompted for; the password prompt is\n" +
			"hidden and asks for confirmation.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			var err error
			if username == "" {
				if username, err = p.ask("Username: ", false); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.confirmPassword(); err != nil {
					return err
				}
			}

			return withStore(cmd.Context(), func(e *env, store *orm.Store) error {
				ctx := cmd.Context()
				if err := store.Migrate(ctx); err != nil {
					return err
				}

				var (
					user    *domain.User
					created bool
				)
				err := store.Transaction(ctx, func(tx *orm.Store) error {
					var err error
					user, created, err = service.NewUserService(tx.Users()).EnsureAdmin(ctx, username, password)
					return err
				})
				if err != nil {
					return err
				}

				action := "updated"
				if created {
					action = "created"
				}
				e.logger.WithField("user_id", user.ID).Infof("admin user %s", action)
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Done.")
				return err
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "the username used to login")
	cmd.Flags().StringVar(&password, "password", "", "the password used to login")
	return cmd
}

var errPasswordMismatch = errors.New("the two entered values do not match")

func (p *prompter) confirmPassword() (string, error) {
	first, err := p.ask("Password: ", true)
	if err != nil {
		return "", err
	}
	second, err := p.ask("Repeat for confirmation: ", true)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}
