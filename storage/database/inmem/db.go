// Package inmemdb is an in-memory implementation of the domain repositories,
// used by the import service tests. Transactions are snapshot-based: BeginTx
// copies every table, Rollback restores the copy, Commit discards it.
package inmemdb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/activity"
	"github.com/trezcool/chekechea/core/classgroup"
	"github.com/trezcool/chekechea/core/school"
	"github.com/trezcool/chekechea/core/student"
	"github.com/trezcool/chekechea/core/truck"
)

var errNotSupported = errors.New("inmemdb: raw SQL not supported")

type DB struct {
	mutex sync.RWMutex

	trucks     map[int]*truck.Truck
	schools    map[int]*school.School
	groups     map[int]*classgroup.ClassGroup
	activities map[int]*activity.Activity
	students   map[int]*student.Student
	families   map[int]*student.Family

	pkCount int
}

var _ core.DB = (*DB)(nil) // interface compliance check

func NewDB() *DB {
	return &DB{
		trucks:     make(map[int]*truck.Truck),
		schools:    make(map[int]*school.School),
		groups:     make(map[int]*classgroup.ClassGroup),
		activities: make(map[int]*activity.Activity),
		students:   make(map[int]*student.Student),
		families:   make(map[int]*student.Family),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID() int {
	db.pkCount++
	return db.pkCount
}

func snapshot[T any](m map[int]*T) map[int]*T {
	cp := make(map[int]*T, len(m))
	for id, v := range m {
		val := *v
		cp[id] = &val
	}
	return cp
}

func (db *DB) BeginTx(_ context.Context) (core.DBTransactor, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return &Tx{
		db:         db,
		trucks:     snapshot(db.trucks),
		schools:    snapshot(db.schools),
		groups:     snapshot(db.groups),
		activities: snapshot(db.activities),
		students:   snapshot(db.students),
		families:   snapshot(db.families),
		pkCount:    db.pkCount,
	}, nil
}

// Tx restores the pre-transaction snapshot on Rollback. It satisfies
// core.DBTransactor; the raw SQL methods are never exercised here since the
// inmem repositories work on the maps directly.
type Tx struct {
	db   *DB
	done bool

	trucks     map[int]*truck.Truck
	schools    map[int]*school.School
	groups     map[int]*classgroup.ClassGroup
	activities map[int]*activity.Activity
	students   map[int]*student.Student
	families   map[int]*student.Family
	pkCount    int
}

var _ core.DBTransactor = (*Tx)(nil) // interface compliance check

func (tx *Tx) Commit() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	return nil
}

func (tx *Tx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true

	tx.db.mutex.Lock()
	defer tx.db.mutex.Unlock()
	tx.db.trucks = tx.trucks
	tx.db.schools = tx.schools
	tx.db.groups = tx.groups
	tx.db.activities = tx.activities
	tx.db.students = tx.students
	tx.db.families = tx.families
	tx.db.pkCount = tx.pkCount
	return nil
}

func (tx *Tx) DriverName() string { return "inmem" }
func (tx *Tx) Rebind(q string) string {
	return q
}
func (tx *Tx) BindNamed(q string, _ interface{}) (string, []interface{}, error) {
	return q, nil, nil
}
func (tx *Tx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNotSupported
}
func (tx *Tx) QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error) {
	return nil, errNotSupported
}
func (tx *Tx) QueryRowxContext(context.Context, string, ...interface{}) *sqlx.Row {
	return nil
}
func (tx *Tx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNotSupported
}
