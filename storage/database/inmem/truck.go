package inmemdb

import (
	"context"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/truck"
)

type truckRepository struct {
	db *DB
}

var _ truck.Repository = (*truckRepository)(nil) // interface compliance check

func NewTruckRepository(db *DB) *truckRepository {
	return &truckRepository{db: db}
}

func (repo *truckRepository) CreateTruck(_ context.Context, trk truck.Truck, _ ...core.DBExecutor) (truck.Truck, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	trk.ID = repo.db.nextID()
	repo.db.trucks[trk.ID] = &trk
	return trk, nil
}

func (repo *truckRepository) QueryTruckIDs(_ context.Context, _ ...core.DBExecutor) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]int, 0, len(repo.db.trucks))
	for id := range repo.db.trucks {
		ids = append(ids, id)
	}
	return ids, nil
}
