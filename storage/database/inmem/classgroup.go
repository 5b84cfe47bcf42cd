package inmemdb

import (
	"context"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/classgroup"
)

type classGroupRepository struct {
	db *DB
}

var _ classgroup.Repository = (*classGroupRepository)(nil) // interface compliance check

func NewClassGroupRepository(db *DB) *classGroupRepository {
	return &classGroupRepository{db: db}
}

func (repo *classGroupRepository) CreateClassGroup(_ context.Context, grp classgroup.ClassGroup, _ ...core.DBExecutor) (classgroup.ClassGroup, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grp.ID = repo.db.nextID()
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *classGroupRepository) UpdateClassGroup(_ context.Context, grp classgroup.ClassGroup, _ ...core.DBExecutor) (classgroup.ClassGroup, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.groups[grp.ID]; !ok {
		return classgroup.ClassGroup{}, classgroup.ErrNotFound
	}
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *classGroupRepository) GetClassGroupByLegacyID(_ context.Context, legacyID string, _ ...core.DBExecutor) (classgroup.ClassGroup, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, grp := range repo.db.groups {
		if grp.LegacyID.Valid && grp.LegacyID.String == legacyID {
			return *grp, nil
		}
	}
	return classgroup.ClassGroup{}, classgroup.ErrNotFound
}

func (repo *classGroupRepository) ClassGroupIDsByCode(_ context.Context, _ ...core.DBExecutor) (map[string]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	byCode := make(map[string]int, len(repo.db.groups))
	for id, grp := range repo.db.groups {
		if grp.LegacyID.Valid {
			byCode[grp.LegacyID.String] = id
		}
	}
	return byCode, nil
}
