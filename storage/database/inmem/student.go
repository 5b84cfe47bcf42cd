package inmemdb

import (
	"context"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stu.ID = repo.db.nextID()
	repo.db.students[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.students[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) GetStudentByLegacyID(_ context.Context, legacyID string, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, stu := range repo.db.students {
		if stu.LegacyID.Valid && stu.LegacyID.String == legacyID {
			return *stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

type familyRepository struct {
	db *DB
}

var _ student.FamilyRepository = (*familyRepository)(nil) // interface compliance check

func NewFamilyRepository(db *DB) *familyRepository {
	return &familyRepository{db: db}
}

func (repo *familyRepository) CreateFamily(_ context.Context, fam student.Family, _ ...core.DBExecutor) (student.Family, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	fam.ID = repo.db.nextID()
	repo.db.families[fam.ID] = &fam
	return fam, nil
}

func (repo *familyRepository) GetFamilyByName(_ context.Context, name string, _ ...core.DBExecutor) (student.Family, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, fam := range repo.db.families {
		if fam.Name == name {
			return *fam, nil
		}
	}
	return student.Family{}, student.ErrFamilyNotFound
}
