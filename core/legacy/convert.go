package legacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

const maxFieldLen = 255

// IDSet is a nullable set of valid foreign-key ids. A nil *IDSet disables
// validation entirely (accept any id unchecked); a non-nil empty set
// validates and rejects every id. Callers that queried the store pass the
// ids they found, empty or not; callers that skip validation pass nil.
type IDSet struct {
	ids map[int]struct{}
}

func NewIDSet(ids ...int) *IDSet {
	s := &IDSet{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *IDSet) Enabled() bool { return s != nil }

func (s *IDSet) Contains(id int) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// dateFormats are tried in order; the legacy extracts mix ISO timestamps,
// ISO dates, US slash dates and day-first slash dates.
var dateFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"Jan 2, 2006",
}

func parseLegacyDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeOfDayFormats accept bare clock values and the Access convention of
// exporting times as timestamps on the epoch date 1899-12-30.
var timeOfDayFormats = []string{
	"15:04:05",
	"15:04",
	"2006-01-02T15:04:05",
	"3:04 PM",
}

// parseTimeOfDay normalizes a clock value onto the zero date so two
// times-of-day compare directly.
func parseTimeOfDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeOfDayFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(1, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseLegacyBool reads the truthy spellings seen in Access extracts;
// Access stores TRUE as -1. Anything else is false.
func parseLegacyBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "-1", "true", "yes", "y":
		return true
	}
	return false
}

func parseLegacyDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// truncate caps s at maxFieldLen runes, recording a warning naming the
// original and target lengths.
func truncate(field, s string, warns *[]MappingWarning) string {
	runes := []rune(s)
	if len(runes) <= maxFieldLen {
		return s
	}
	out := string(runes[:maxFieldLen])
	*warns = append(*warns, MappingWarning{
		Field:         field,
		Message:       fmt.Sprintf("value truncated from %d to %d characters", len(runes), maxFieldLen),
		OriginalValue: null.StringFrom(s),
		MappedValue:   null.StringFrom(out),
	})
	return out
}

// trimmed converts a nullable raw string into a trimmed nullable string;
// values that are empty after trimming are not distinguished from null.
func trimmed(s null.String) null.String {
	v := core.CleanString(s.String)
	return null.NewString(v, s.Valid && v != "")
}

func firstNonEmpty(vals ...null.String) null.String {
	for _, v := range vals {
		if t := trimmed(v); t.Valid {
			return t
		}
	}
	return null.String{}
}
