package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/classgroup"
)

type classGroupRepository struct {
	exec core.DBExecutor
}

var _ classgroup.Repository = (*classGroupRepository)(nil) // interface compliance check

func NewClassGroupRepository(exec core.DBExecutor) *classGroupRepository {
	return &classGroupRepository{exec: exec}
}

func (repo classGroupRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to classgroup.ErrNotFound
func (repo classGroupRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return classgroup.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo classGroupRepository) CreateClassGroup(ctx context.Context, grp classgroup.ClassGroup, exec ...core.DBExecutor) (classgroup.ClassGroup, error) {
	const q = `
	INSERT INTO class_group (name, legacy_id, school_id, day_of_week, sequence, start_time, end_time,
	                         truck_id, comments, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &grp.ID, q,
		grp.Name, grp.LegacyID, grp.SchoolID, grp.DayOfWeek, grp.Sequence, grp.StartTime, grp.EndTime,
		grp.TruckID, grp.Comments, grp.IsActive, grp.CreatedAt, grp.UpdatedAt)
	if err != nil {
		return classgroup.ClassGroup{}, errors.Wrap(err, "inserting class group")
	}
	return grp, nil
}

func (repo classGroupRepository) UpdateClassGroup(ctx context.Context, grp classgroup.ClassGroup, exec ...core.DBExecutor) (classgroup.ClassGroup, error) {
	const q = `
	UPDATE class_group
	SET name = $1, legacy_id = $2, school_id = $3, day_of_week = $4, sequence = $5, start_time = $6,
	    end_time = $7, truck_id = $8, comments = $9, is_active = $10, updated_at = $11
	WHERE id = $12`
	if _, err := repo.getExec(exec).ExecContext(ctx, q,
		grp.Name, grp.LegacyID, grp.SchoolID, grp.DayOfWeek, grp.Sequence, grp.StartTime,
		grp.EndTime, grp.TruckID, grp.Comments, grp.IsActive, grp.UpdatedAt, grp.ID); err != nil {
		return classgroup.ClassGroup{}, errors.Wrap(err, "updating class group")
	}
	return grp, nil
}

func (repo classGroupRepository) GetClassGroupByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (classgroup.ClassGroup, error) {
	const q = `SELECT * FROM class_group WHERE legacy_id = $1`
	var grp classgroup.ClassGroup
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &grp, q, legacyID); err != nil {
		return classgroup.ClassGroup{}, repo.trapNoRowsErr(err, "finding class group by legacy id")
	}
	return grp, nil
}

func (repo classGroupRepository) ClassGroupIDsByCode(ctx context.Context, exec ...core.DBExecutor) (map[string]int, error) {
	rows, err := repo.getExec(exec).QueryxContext(ctx, `SELECT id, legacy_id FROM class_group WHERE legacy_id IS NOT NULL`)
	if err != nil {
		return nil, errors.Wrap(err, "querying class group codes")
	}
	defer func() { _ = rows.Close() }()

	byCode := make(map[string]int)
	for rows.Next() {
		var (
			id   int
			code string
		)
		if err = rows.Scan(&id, &code); err != nil {
			return nil, errors.Wrap(err, "querying class group codes")
		}
		byCode[code] = id
	}
	return byCode, errors.Wrap(rows.Err(), "querying class group codes")
}
