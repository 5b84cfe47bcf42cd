package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/storage/database"
)

func migrateCommand(conf *core.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return database.Migrate(db.DB.DB)
		},
	}
}
