package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/activity"
)

type activityRepository struct {
	exec core.DBExecutor
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(exec core.DBExecutor) *activityRepository {
	return &activityRepository{exec: exec}
}

func (repo activityRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to activity.ErrNotFound
func (repo activityRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return activity.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo activityRepository) CreateActivity(ctx context.Context, act activity.Activity, exec ...core.DBExecutor) (activity.Activity, error) {
	const q = `
	INSERT INTO activity (name, legacy_id, icon, comments, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &act.ID, q,
		act.Name, act.LegacyID, act.Icon, act.Comments, act.IsActive, act.CreatedAt, act.UpdatedAt)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return act, nil
}

func (repo activityRepository) UpdateActivity(ctx context.Context, act activity.Activity, exec ...core.DBExecutor) (activity.Activity, error) {
	const q = `
	UPDATE activity
	SET name = $1, legacy_id = $2, icon = $3, comments = $4, is_active = $5, updated_at = $6
	WHERE id = $7`
	if _, err := repo.getExec(exec).ExecContext(ctx, q,
		act.Name, act.LegacyID, act.Icon, act.Comments, act.IsActive, act.UpdatedAt, act.ID); err != nil {
		return activity.Activity{}, errors.Wrap(err, "updating activity")
	}
	return act, nil
}

func (repo activityRepository) GetActivityByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (activity.Activity, error) {
	const q = `SELECT * FROM activity WHERE legacy_id = $1`
	var act activity.Activity
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &act, q, legacyID); err != nil {
		return activity.Activity{}, repo.trapNoRowsErr(err, "finding activity by legacy id")
	}
	return act, nil
}
