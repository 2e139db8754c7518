package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sudharsan1-5/SudharsanBuilds/src/cmsservice/internal"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CMS HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()

			db, err := openDB(ctx, v)
			if err != nil {
				return err
			}
			defer db.Close()

			if !skipMigrate {
				if err := internal.Migrate(db, 0); err != nil {
					return err
				}
			}

			internal.SetupValidator()

			auth, err := newAuthenticator(ctx, v)
			if err != nil {
				return err
			}

			cache, err := newCache(v)
			if err != nil {
				return err
			}

			events, err := newPublisher(v)
			if err != nil {
				return err
			}

			s := internal.NewCMSService(
				internal.NewCMSStorage(db),
				&internal.Collections{
					Contacts:     internal.NewContactStorage(db),
					Socials:      internal.NewSocialStorage(db),
					Skills:       internal.NewSkillStorage(db),
					Achievements: internal.NewAchievementStorage(db),
				},
				cache,
				events,
			)

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%s", v.GetString("cms.server.port")),
				Handler:           internal.NewRouter(s, auth, v.GetString("cms.allow.origin")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			slog.Info("cms service is running", "port", v.GetString("cms.server.port"))
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}

func migrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Long: `Apply database migrations.

Examples:
  cmsservice migrate
  cmsservice migrate --steps -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB(context.Background(), v)
			if err != nil {
				return err
			}
			defer db.Close()

			return internal.Migrate(db, steps)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply, negative to roll back, 0 for all")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use for CMS_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := internal.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
