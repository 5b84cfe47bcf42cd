package school

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

var ErrNotFound = errors.New("school not found")

// School is a partner school or daycare location.
// LegacyID carries the historical SchoolId so a re-import of the same
// extract reconciles against existing rows instead of duplicating them.
type School struct {
	ID        int                 `db:"id" json:"id"`
	Name      string              `db:"name" json:"name" validate:"max=255"`
	LegacyID  null.String         `db:"legacy_id" json:"legacy_id"`
	TruckID   null.Int            `db:"truck_id" json:"truck_id"`
	Price     decimal.NullDecimal `db:"price" json:"price"`
	Formula   decimal.NullDecimal `db:"formula" json:"formula"`
	Comments  null.String         `db:"comments" json:"comments"`
	IsActive  bool                `db:"is_active" json:"is_active"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"` // UTC
}

type Repository interface {
	CreateSchool(ctx context.Context, sch School, exec ...core.DBExecutor) (School, error)
	UpdateSchool(ctx context.Context, sch School, exec ...core.DBExecutor) (School, error)
	GetSchoolByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (School, error)
	// QuerySchoolIDs returns the ids of all schools, for foreign-key validation.
	QuerySchoolIDs(ctx context.Context, exec ...core.DBExecutor) ([]int, error)
	// SchoolIDsByName maps school names to ids, for resolving denormalized
	// school names in legacy student records.
	SchoolIDsByName(ctx context.Context, exec ...core.DBExecutor) (map[string]int, error)
}
