package activity

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

var ErrNotFound = errors.New("activity not found")

// Activity is something students can enroll in (judo, chess, ...).
// Icon holds a base64-encoded BMP/JPEG/PNG shown in the admin console;
// legacy icons are repaired during import (OLE wrapper stripped).
type Activity struct {
	ID        int         `db:"id" json:"id"`
	Name      string      `db:"name" json:"name" validate:"max=255"`
	LegacyID  null.String `db:"legacy_id" json:"legacy_id"`
	Icon      null.String `db:"icon" json:"icon"`
	Comments  null.String `db:"comments" json:"comments"`
	IsActive  bool        `db:"is_active" json:"is_active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

type Repository interface {
	CreateActivity(ctx context.Context, act Activity, exec ...core.DBExecutor) (Activity, error)
	UpdateActivity(ctx context.Context, act Activity, exec ...core.DBExecutor) (Activity, error)
	GetActivityByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (Activity, error)
}
