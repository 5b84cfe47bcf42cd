package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/trezcool/chekechea/core"
	logsvc "github.com/trezcool/chekechea/services/logger"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	root := &cobra.Command{
		Use:          "admin",
		Short:        "Chekechea administration commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		createDBCommand(conf),
		migrateCommand(conf),
		importCommand(conf, logger),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
