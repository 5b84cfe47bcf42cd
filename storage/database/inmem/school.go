package inmemdb

import (
	"context"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateSchool(_ context.Context, sch school.School, _ ...core.DBExecutor) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sch.ID = repo.db.nextID()
	repo.db.schools[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) UpdateSchool(_ context.Context, sch school.School, _ ...core.DBExecutor) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.schools[sch.ID]; !ok {
		return school.School{}, school.ErrNotFound
	}
	repo.db.schools[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByLegacyID(_ context.Context, legacyID string, _ ...core.DBExecutor) (school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sch := range repo.db.schools {
		if sch.LegacyID.Valid && sch.LegacyID.String == legacyID {
			return *sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QuerySchoolIDs(_ context.Context, _ ...core.DBExecutor) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]int, 0, len(repo.db.schools))
	for id := range repo.db.schools {
		ids = append(ids, id)
	}
	return ids, nil
}

func (repo *schoolRepository) SchoolIDsByName(_ context.Context, _ ...core.DBExecutor) (map[string]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	byName := make(map[string]int, len(repo.db.schools))
	for id, sch := range repo.db.schools {
		if sch.Name != "" {
			byName[sch.Name] = id
		}
	}
	return byName, nil
}
