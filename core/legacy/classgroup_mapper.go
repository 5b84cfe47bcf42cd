package legacy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core/classgroup"
)

// ClassGroupMapper turns legacy Class Group records into class group
// entities. Unlike schools, class groups have hard requirements: a name and
// a valid school. Records flagged Import=false are skipped before any other
// validation.
type ClassGroupMapper struct {
	validSchoolIDs *IDSet
	validTruckIDs  *IDSet
}

func NewClassGroupMapper(validSchoolIDs, validTruckIDs *IDSet) *ClassGroupMapper {
	return &ClassGroupMapper{validSchoolIDs: validSchoolIDs, validTruckIDs: validTruckIDs}
}

func (m *ClassGroupMapper) Map(rec ClassGroupRecord) MappingResult[classgroup.ClassGroup] {
	if !rec.Import {
		return Skip[classgroup.ClassGroup]("record flagged Import=false")
	}

	var (
		warns []MappingWarning
		errs  []MappingError
	)

	name := strings.TrimSpace(rec.Description.String)
	if name == "" {
		name = strings.TrimSpace(rec.Code)
	}
	if name == "" {
		errs = append(errs, MappingError{Field: "Name", Message: "class group has no description or code"})
	}
	name = truncate("Name", name, &warns)

	grp := classgroup.ClassGroup{
		Name:     name,
		LegacyID: null.NewString(strings.TrimSpace(rec.Code), strings.TrimSpace(rec.Code) != ""),
		Comments: trimmed(rec.Comments),
	}

	// a class group without a valid school is meaningless
	switch {
	case !rec.SchoolID.Valid:
		errs = append(errs, MappingError{Field: "SchoolId", Message: "SchoolId is required"})
	case m.validSchoolIDs.Enabled() && !m.validSchoolIDs.Contains(rec.SchoolID.Int):
		errs = append(errs, MappingError{Field: "SchoolId", Message: fmt.Sprintf("school %d does not exist", rec.SchoolID.Int)})
	default:
		grp.SchoolID = rec.SchoolID.Int
	}

	grp.DayOfWeek = m.mapDay(rec.DayID, &warns)
	grp.Sequence = m.mapSequence(rec.Sequence, &warns)

	start, startOK := m.mapTime("StartTime", rec.StartTime, &errs)
	end, endOK := m.mapTime("EndTime", rec.EndTime, &errs)
	if startOK && endOK && !end.Time.After(start.Time) {
		errs = append(errs, MappingError{Field: "EndTime", Message: "EndTime must be after Start Time."})
	} else {
		grp.StartTime = start
		grp.EndTime = end
	}

	if rec.DayTruck.Valid {
		if m.validTruckIDs.Enabled() && !m.validTruckIDs.Contains(rec.DayTruck.Int) {
			warns = append(warns, demotion(
				"DayTruck",
				fmt.Sprintf("truck %d does not exist; cleared", rec.DayTruck.Int),
				strconv.Itoa(rec.DayTruck.Int),
			))
		} else {
			grp.TruckID = null.IntFrom(rec.DayTruck.Int)
		}
	}

	if len(errs) > 0 {
		return Fail[classgroup.ClassGroup](warns, errs...)
	}
	return Ok(grp, warns...)
}

func (m *ClassGroupMapper) MapMany(recs []ClassGroupRecord) BatchResult[classgroup.ClassGroup] {
	return mapMany(recs, m.Map)
}

// mapDay maps the legacy DayId ("1".."5") to Monday..Friday,
// defaulting to Monday.
func (m *ClassGroupMapper) mapDay(dayID null.String, warns *[]MappingWarning) time.Weekday {
	raw := strings.TrimSpace(dayID.String)
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 5 {
		return time.Weekday(n) // time.Monday == 1
	}
	w := demotion("DayId", fmt.Sprintf("invalid DayId %q; defaulted to Monday", raw), raw)
	w.MappedValue = null.StringFrom(strconv.Itoa(int(time.Monday)))
	*warns = append(*warns, w)
	return time.Monday
}

func (m *ClassGroupMapper) mapSequence(seq null.String, warns *[]MappingWarning) int {
	raw := strings.TrimSpace(seq.String)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		w := demotion("Sequence", fmt.Sprintf("invalid Sequence %q; defaulted to 1", raw), raw)
		w.MappedValue = null.StringFrom("1")
		*warns = append(*warns, w)
		return 1
	}
	return n
}

// mapTime parses a mandatory-if-present time-of-day. An unparsable present
// value is an error, not a default: downstream scheduling depends on it.
func (m *ClassGroupMapper) mapTime(field string, val null.String, errs *[]MappingError) (null.Time, bool) {
	raw := strings.TrimSpace(val.String)
	if raw == "" {
		return null.Time{}, false
	}
	t, ok := parseTimeOfDay(raw)
	if !ok {
		*errs = append(*errs, MappingError{Field: field, Message: fmt.Sprintf("cannot parse time %q", raw)})
		return null.Time{}, false
	}
	return null.TimeFrom(t), true
}
