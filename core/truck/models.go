package truck

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

var ErrNotFound = errors.New("truck not found")

// Truck is a transport vehicle assigned to schools and class groups.
// Trucks are managed in the admin console; the legacy import only
// references them as foreign keys.
type Truck struct {
	ID        int         `db:"id" json:"id"`
	Name      string      `db:"name" json:"name" validate:"required,max=255"`
	Plate     null.String `db:"plate" json:"plate"`
	IsActive  bool        `db:"is_active" json:"is_active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

type Repository interface {
	CreateTruck(ctx context.Context, trk Truck, exec ...core.DBExecutor) (Truck, error)
	// QueryTruckIDs returns the ids of all known trucks, for foreign-key validation.
	QueryTruckIDs(ctx context.Context, exec ...core.DBExecutor) ([]int, error)
}
