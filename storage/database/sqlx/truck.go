package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/truck"
)

type truckRepository struct {
	exec core.DBExecutor
}

var _ truck.Repository = (*truckRepository)(nil) // interface compliance check

func NewTruckRepository(exec core.DBExecutor) *truckRepository {
	return &truckRepository{exec: exec}
}

func (repo truckRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

func (repo truckRepository) CreateTruck(ctx context.Context, trk truck.Truck, exec ...core.DBExecutor) (truck.Truck, error) {
	const q = `
	INSERT INTO truck (name, plate, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &trk.ID, q,
		trk.Name, trk.Plate, trk.IsActive, trk.CreatedAt, trk.UpdatedAt)
	if err != nil {
		return truck.Truck{}, errors.Wrap(err, "inserting truck")
	}
	return trk, nil
}

func (repo truckRepository) QueryTruckIDs(ctx context.Context, exec ...core.DBExecutor) ([]int, error) {
	var ids []int
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &ids, `SELECT id FROM truck`); err != nil {
		return nil, errors.Wrap(err, "querying truck ids")
	}
	return ids, nil
}
