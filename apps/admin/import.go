package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/importer"
	emailsvc "github.com/trezcool/chekechea/services/email"
	sendgridmail "github.com/trezcool/chekechea/services/email/sendgrid"
	"github.com/trezcool/chekechea/storage/database"
	sqlxrepos "github.com/trezcool/chekechea/storage/database/sqlx"
)

func importCommand(conf *core.Config, logger core.Logger) *cobra.Command {
	var (
		dir     string
		mode    string
		excPath string
		noEmail bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a legacy Access extract",
		Long: `Import a legacy Access XML/XSD extract into the database.

The extract directory is expected to contain the per-entity subfolders
(1_School, 2_Class_Group, 3_Activity, 4_Children); missing subfolders are
skipped. Entities already imported (matched by legacy id) are handled per
--mode: fail aborts the family, skip leaves them untouched, update
overwrites them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolvedMode, err := importer.ParseConflictResolutionMode(mode)
			if err != nil {
				return err
			}

			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			svc := importer.NewService(
				db,
				logger,
				sqlxrepos.NewTruckRepository(db.DB),
				sqlxrepos.NewSchoolRepository(db.DB),
				sqlxrepos.NewClassGroupRepository(db.DB),
				sqlxrepos.NewActivityRepository(db.DB),
				sqlxrepos.NewStudentRepository(db.DB),
				sqlxrepos.NewFamilyRepository(db.DB),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, runErr := svc.Run(ctx, importer.Options{Dir: dir, Mode: resolvedMode})
			if res != nil {
				fmt.Println(importer.RenderTextReport(res))

				if excPath == "" {
					excPath = filepath.Join(conf.WorkDir, fmt.Sprintf("import_exceptions_%s.json", res.RunID))
				}
				if err = importer.WriteExceptionsJSON(res, excPath); err != nil {
					logger.Error("writing exceptions file", err)
				} else if len(res.Exceptions) > 0 {
					fmt.Printf("Exceptions written to %s\n", excPath)
				}

				if !noEmail && len(conf.Import.ReportRecipients) > 0 {
					msg, err := importer.ReportEmail(res, conf.Import.ReportRecipients)
					if err != nil {
						logger.Error("building report email", err)
					} else {
						mailService(conf, logger).SendMessages(msg)
					}
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&dir, "dir", conf.Import.Dir, "Extract directory to import")
	cmd.Flags().StringVar(&mode, "mode", conf.Import.Mode, "Conflict resolution mode: fail, skip or update")
	cmd.Flags().StringVar(&excPath, "exceptions", "", "Path of the exceptions JSON file (default: WorkDir/import_exceptions_<run>.json)")
	cmd.Flags().BoolVar(&noEmail, "no-email", false, "Do not email the run report")

	return cmd
}

func mailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.SendgridAPIKey != "" {
		return sendgridmail.NewService(conf, logger)
	}
	return emailsvc.NewConsoleService(conf)
}
