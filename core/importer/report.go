package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
)

// RenderTextReport formats a run summary for the terminal and for the
// plain-text body of the report email.
func RenderTextReport(res *ImportExecutionResult) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Legacy import run %s\n", res.RunID)
	fmt.Fprintf(&buf, "Mode: %s | Started: %s | Duration: %s\n\n",
		res.Mode, res.StartedAt.Format("2006-01-02 15:04:05 MST"), res.Duration.Round(1e6))

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Entity\tImported\tUpdated\tSkipped\tFailed")
	rows := []struct {
		name string
		r    EntityImportResult
	}{
		{"Schools", res.Schools},
		{"Class Groups", res.ClassGroups},
		{"Activities", res.Activities},
		{"Students", res.Students},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			row.name, row.r.Imported, row.r.Updated, row.r.Skipped, row.r.Failed)
	}
	fmt.Fprintf(w, "Total\t%d\t%d\t%d\t%d\n",
		res.TotalImported(), res.TotalUpdated(), res.TotalSkipped(), res.TotalFailed())
	_ = w.Flush()

	fmt.Fprintf(&buf, "\nSuccess rate: %.1f%% (%d records processed)\n",
		res.SuccessRate()*100, res.TotalProcessed())

	if len(res.Exceptions) > 0 {
		fmt.Fprintf(&buf, "\n%d exception(s):\n", len(res.Exceptions))
		for _, exc := range res.Exceptions {
			id := exc.LegacyID
			if id == "" {
				id = "-"
			}
			fmt.Fprintf(&buf, "  [%s %s] %s: %s\n", exc.EntityType, id, exc.Field, exc.Reason)
		}
	}
	return buf.String()
}

// WriteExceptionsJSON dumps the run's exceptions to path as a JSON array,
// for offline triage of a large run. Nothing is written when the run had no
// exceptions.
func WriteExceptionsJSON(res *ImportExecutionResult, path string) error {
	if len(res.Exceptions) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(res.Exceptions, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling exceptions")
	}
	return errors.Wrapf(os.WriteFile(path, append(data, '\n'), 0o644), "writing %s", path)
}

// ReportEmail builds the run report email for the admin distribution list,
// with the exceptions attached as JSON when there are any.
func ReportEmail(res *ImportExecutionResult, to []mail.Address) (*core.EmailMessage, error) {
	subject := fmt.Sprintf("Legacy import %s: %d imported, %d failed",
		res.StartedAt.Format("2006-01-02"), res.TotalImported()+res.TotalUpdated(), res.TotalFailed())

	msg := &core.EmailMessage{
		To:      to,
		Subject: subject,
		BodyStr: RenderTextReport(res),
	}
	if err := msg.Render(); err != nil {
		return nil, errors.Wrap(err, "rendering report email")
	}

	if len(res.Exceptions) > 0 {
		data, err := json.MarshalIndent(res.Exceptions, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshalling exceptions")
		}
		name := fmt.Sprintf("exceptions_%s.json", strings.ReplaceAll(res.RunID.String(), "-", ""))
		if err = msg.Attach(bytes.NewReader(data), name, "application/json"); err != nil {
			return nil, errors.Wrap(err, "attaching exceptions")
		}
	}
	return msg, nil
}
