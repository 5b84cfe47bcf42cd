package inmemdb

import (
	"context"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateActivity(_ context.Context, act activity.Activity, _ ...core.DBExecutor) (activity.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	act.ID = repo.db.nextID()
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) UpdateActivity(_ context.Context, act activity.Activity, _ ...core.DBExecutor) (activity.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.activities[act.ID]; !ok {
		return activity.Activity{}, activity.ErrNotFound
	}
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) GetActivityByLegacyID(_ context.Context, legacyID string, _ ...core.DBExecutor) (activity.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, act := range repo.db.activities {
		if act.LegacyID.Valid && act.LegacyID.String == legacyID {
			return *act, nil
		}
	}
	return activity.Activity{}, activity.ErrNotFound
}
