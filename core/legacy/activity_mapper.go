package legacy

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core/activity"
)

// ActivityMapper turns legacy Activity records into activity entities.
// Activities have no required fields beyond the legacy id; oversized strings
// are truncated and icons are repaired (OLE wrapper stripped).
type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper { return &ActivityMapper{} }

func (m *ActivityMapper) Map(rec ActivityRecord) MappingResult[activity.Activity] {
	var warns []MappingWarning

	act := activity.Activity{
		Name:     truncate("Description", strings.TrimSpace(rec.Description.String), &warns),
		LegacyID: null.NewString(strings.TrimSpace(rec.ActivityID), strings.TrimSpace(rec.ActivityID) != ""),
		Comments: trimmed(rec.Comments),
	}
	if act.Comments.Valid {
		act.Comments = null.StringFrom(truncate("Comments", act.Comments.String, &warns))
	}

	if icon := strings.TrimSpace(rec.Icon.String); icon != "" {
		repaired, found, err := StripOleWrapper(icon)
		switch {
		case err != nil:
			// an activity may persist with no icon
			warns = append(warns, demotion("Icon", "icon data is not valid base64; cleared", icon))
		case !found:
			warns = append(warns, warning("Icon", "no BMP, JPEG or PNG signature found in icon data; kept as-is"))
			act.Icon = null.StringFrom(repaired)
		default:
			act.Icon = null.StringFrom(repaired)
		}
	}

	return Ok(act, warns...)
}

func (m *ActivityMapper) MapMany(recs []ActivityRecord) BatchResult[activity.Activity] {
	return mapMany(recs, m.Map)
}
