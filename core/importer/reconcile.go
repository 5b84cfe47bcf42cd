package importer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
)

// ErrConflict aborts a family's transaction when a legacy-id collision is
// found under FailOnConflict.
var ErrConflict = errors.New("legacy id already imported")

// entityOps are the per-family operations the generic reconciliation routine
// is parameterized with. find reports (zero, false, nil) when no row carries
// the legacy id.
type entityOps[E any] struct {
	entityType string
	legacyID   func(E) string
	find       func(ctx context.Context, exec []core.DBExecutor, legacyID string) (E, bool, error)
	insert     func(ctx context.Context, exec []core.DBExecutor, e E) error
	update     func(ctx context.Context, exec []core.DBExecutor, existing, incoming E) error
}

// reconcile applies the conflict policy to every mapped entity of one family
// inside a single transaction. Per-record insert/update failures are counted
// and recorded without aborting the transaction; the only transaction-fatal
// condition is a collision under FailOnConflict, which rolls the family back
// and returns ErrConflict.
func reconcile[E any](
	ctx context.Context,
	db core.DB,
	mode ConflictResolutionMode,
	entities []E,
	ops entityOps[E],
	res *EntityImportResult,
	excs *[]ImportException,
) error {
	if len(entities) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return errors.Wrapf(err, "beginning %s transaction", ops.entityType)
	}
	exec := []core.DBExecutor{tx}

	fail := func(legacyID string, err error) {
		res.Failed++
		*excs = append(*excs, ImportException{
			EntityType: ops.entityType,
			LegacyID:   legacyID,
			Field:      "_db",
			Reason:     err.Error(),
		})
	}

	for _, e := range entities {
		if err = ctx.Err(); err != nil {
			_ = tx.Rollback()
			return err
		}

		legacyID := ops.legacyID(e)
		if legacyID != "" {
			existing, found, err := ops.find(ctx, exec, legacyID)
			if err != nil {
				fail(legacyID, err)
				continue
			}
			if found {
				switch mode {
				case FailOnConflict:
					_ = tx.Rollback()
					*excs = append(*excs, ImportException{
						EntityType: ops.entityType,
						LegacyID:   legacyID,
						Field:      "_conflict",
						Reason:     ErrConflict.Error(),
					})
					return errors.Wrapf(ErrConflict, "%s %q", ops.entityType, legacyID)
				case SkipExisting:
					res.Skipped++
					continue
				case Update:
					if err = ops.update(ctx, exec, existing, e); err != nil {
						fail(legacyID, err)
					} else {
						res.Updated++
					}
					continue
				}
			}
		}

		if err = ops.insert(ctx, exec, e); err != nil {
			fail(legacyID, err)
		} else {
			res.Imported++
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "committing %s transaction", ops.entityType)
	}
	return nil
}
