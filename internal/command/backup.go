package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"watchlist/internal/backup"
	"watchlist/internal/repository/orm"
	"watchlist/internal/storage"
)

func backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a JSON snapshot of the watchlist to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withExporter(cmd.Context(), func(e *env, exp *backup.Exporter) error {
				location, err := exp.Run(cmd.Context())
				if err != nil {
					return err
				}
				e.logger.WithField("location", location).Info("backup uploaded")
				_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
				return err
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withExporter(cmd.Context(), func(_ *env, exp *backup.Exporter) error {
				objects, err := exp.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, obj := range objects {
					modified := "-"
					if obj.LastModified != nil {
						modified = obj.LastModified.UTC().Format("2006-01-02 15:04:05")
					}
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", modified, obj.Size, obj.Key); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	return cmd
}

func withExporter(ctx context.Context, fn func(e *env, exp *backup.Exporter) error) error {
	return withStore(ctx, func(e *env, store *orm.Store) error {
		if e.cfg.Backup.Bucket == "" {
			return errors.New("backup bucket is required (set WATCHLIST_BACKUP_BUCKET)")
		}
		s3svc, err := storage.NewS3ServiceFromConfig(ctx, storage.S3Config{
			Region:   e.cfg.Backup.Region,
			Endpoint: e.cfg.Backup.Endpoint,
			Profile:  e.cfg.AWS.Profile,
		})
		if err != nil {
			return err
		}
		e.logger.Infof("using s3 bucket %s (region %s)", e.cfg.Backup.Bucket, e.cfg.Backup.Region)
		exp := backup.NewExporter(store.Users(), store.Movies(), s3svc, e.cfg.Backup.Bucket, e.cfg.Backup.KeyPrefix)
		return fn(e, exp)
	})
}
