package legacy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core/school"
)

// SchoolMapper turns legacy School records into school entities.
// A school is never rejected: even a record without any name is imported
// (with a warning) so dependent class groups keep their referent.
type SchoolMapper struct {
	validTruckIDs *IDSet
}

func NewSchoolMapper(validTruckIDs *IDSet) *SchoolMapper {
	return &SchoolMapper{validTruckIDs: validTruckIDs}
}

func (m *SchoolMapper) Map(rec SchoolRecord) MappingResult[school.School] {
	var warns []MappingWarning

	name := strings.TrimSpace(rec.SchoolDescription.String)
	if name == "" {
		name = strings.TrimSpace(rec.ShortSchool.String)
	}
	if name == "" {
		warns = append(warns, warning("Name", "school has no description or short name; imported with an empty name"))
	}
	name = truncate("Name", name, &warns)

	sch := school.School{
		Name:     name,
		LegacyID: null.NewString(strings.TrimSpace(rec.SchoolID), strings.TrimSpace(rec.SchoolID) != ""),
		Comments: trimmed(rec.Comments),
	}

	if rec.Truck.Valid {
		if m.validTruckIDs.Enabled() && !m.validTruckIDs.Contains(rec.Truck.Int) {
			warns = append(warns, demotion(
				"TruckId",
				fmt.Sprintf("truck %d does not exist; cleared", rec.Truck.Int),
				strconv.Itoa(rec.Truck.Int),
			))
		} else {
			sch.TruckID = null.IntFrom(rec.Truck.Int)
		}
	}

	// widen the legacy floating-point amounts to fixed-point decimals
	if rec.Price.Valid {
		sch.Price = decimal.NewNullDecimal(decimal.NewFromFloat(rec.Price.Float64))
	}
	if rec.Formula.Valid {
		sch.Formula = decimal.NewNullDecimal(decimal.NewFromFloat(rec.Formula.Float64))
	}

	return Ok(sch, warns...)
}

func (m *SchoolMapper) MapMany(recs []SchoolRecord) BatchResult[school.School] {
	return mapMany(recs, m.Map)
}
