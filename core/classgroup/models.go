package classgroup

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

var ErrNotFound = errors.New("class group not found")

// ClassGroup is a weekly activity group at a school. A group always belongs
// to a school and runs on a fixed weekday between StartTime and EndTime.
// LegacyID carries the historical Class Group Code.
type ClassGroup struct {
	ID        int          `db:"id" json:"id"`
	Name      string       `db:"name" json:"name" validate:"required,max=255"`
	LegacyID  null.String  `db:"legacy_id" json:"legacy_id"`
	SchoolID  int          `db:"school_id" json:"school_id" validate:"required"`
	DayOfWeek time.Weekday `db:"day_of_week" json:"day_of_week"`
	Sequence  int          `db:"sequence" json:"sequence"`
	StartTime null.Time    `db:"start_time" json:"start_time"`
	EndTime   null.Time    `db:"end_time" json:"end_time"`
	TruckID   null.Int     `db:"truck_id" json:"truck_id"`
	Comments  null.String  `db:"comments" json:"comments"`
	IsActive  bool         `db:"is_active" json:"is_active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"` // UTC
}

type Repository interface {
	CreateClassGroup(ctx context.Context, grp ClassGroup, exec ...core.DBExecutor) (ClassGroup, error)
	UpdateClassGroup(ctx context.Context, grp ClassGroup, exec ...core.DBExecutor) (ClassGroup, error)
	GetClassGroupByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (ClassGroup, error)
	// ClassGroupIDsByCode maps legacy class group codes to ids, for resolving
	// denormalized group codes in legacy student records.
	ClassGroupIDsByCode(ctx context.Context, exec ...core.DBExecutor) (map[string]int, error)
}
