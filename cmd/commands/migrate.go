package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarketplaceService/internal/migrations"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
)

func migrateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				versions, err := migrations.Versions()
				if err != nil {
					return err
				}
				for _, v := range versions {
					fmt.Println(v)
				}
				return nil
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.NewMigrator(dbmetrics.Wrap(db, nil), log).Up(cmd.Context())
			if err != nil {
				log.Error("Migration failed: %v", err)
				return err
			}

			log.Info("Migrations applied: %d %v", len(applied), applied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print embedded migration versions and exit")
	return cmd
}
