package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/storage/database"
)

func createDBCommand(conf *core.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "createdb",
		Short: "Create the application database and user if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.CreateIfNotExist(conf)
		},
	}
}
