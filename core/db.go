package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor runs queries on either a live connection or an open transaction.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}

	// DB hands out transactions. Repositories take an optional per-call
	// DBExecutor override so a service can run several calls on one DBTransactor.
	DB interface {
		BeginTx(ctx context.Context) (DBTransactor, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
