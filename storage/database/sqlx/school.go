// Package sqlxrepos implements the domain repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/school"
)

type schoolRepository struct {
	exec core.DBExecutor
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(exec core.DBExecutor) *schoolRepository {
	return &schoolRepository{exec: exec}
}

func (repo schoolRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to school.ErrNotFound
func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School, exec ...core.DBExecutor) (school.School, error) {
	const q = `
	INSERT INTO school (name, legacy_id, truck_id, price, formula, comments, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &sch.ID, q,
		sch.Name, sch.LegacyID, sch.TruckID, sch.Price, sch.Formula, sch.Comments,
		sch.IsActive, sch.CreatedAt, sch.UpdatedAt)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo schoolRepository) UpdateSchool(ctx context.Context, sch school.School, exec ...core.DBExecutor) (school.School, error) {
	const q = `
	UPDATE school
	SET name = $1, legacy_id = $2, truck_id = $3, price = $4, formula = $5, comments = $6,
	    is_active = $7, updated_at = $8
	WHERE id = $9`
	if _, err := repo.getExec(exec).ExecContext(ctx, q,
		sch.Name, sch.LegacyID, sch.TruckID, sch.Price, sch.Formula, sch.Comments,
		sch.IsActive, sch.UpdatedAt, sch.ID); err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	return sch, nil
}

func (repo schoolRepository) GetSchoolByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (school.School, error) {
	const q = `SELECT * FROM school WHERE legacy_id = $1`
	var sch school.School
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &sch, q, legacyID); err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "finding school by legacy id")
	}
	return sch, nil
}

func (repo schoolRepository) QuerySchoolIDs(ctx context.Context, exec ...core.DBExecutor) ([]int, error) {
	var ids []int
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &ids, `SELECT id FROM school`); err != nil {
		return nil, errors.Wrap(err, "querying school ids")
	}
	return ids, nil
}

func (repo schoolRepository) SchoolIDsByName(ctx context.Context, exec ...core.DBExecutor) (map[string]int, error) {
	rows, err := repo.getExec(exec).QueryxContext(ctx, `SELECT id, name FROM school WHERE name <> ''`)
	if err != nil {
		return nil, errors.Wrap(err, "querying school names")
	}
	defer func() { _ = rows.Close() }()

	byName := make(map[string]int)
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err = rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, "querying school names")
		}
		byName[name] = id
	}
	return byName, errors.Wrap(rows.Err(), "querying school names")
}
