package legacy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core/student"
)

// FamilyInfo is extracted opportunistically from a child record when a
// family grouping code is present. It is not persisted by the mapper; the
// import run deduplicates families by name and links students to them.
type FamilyInfo struct {
	FamilyName         string
	PrimaryContactName null.String
	Phone              null.String
	Email              null.String
	Address            null.String
}

// StudentWithFamily is the unit the student mapper produces: the student
// entity plus the family extracted from the same record, if any.
type StudentWithFamily struct {
	Student student.Student
	Family  *FamilyInfo
}

// StudentMapper turns legacy Children records into student entities.
// School and class group references arrive as denormalized names/codes and
// are resolved against caller-supplied dictionaries; a nil dictionary
// disables resolution.
type StudentMapper struct {
	schoolIDsByName     map[string]int
	classGroupIDsByCode map[string]int
}

func NewStudentMapper(schoolIDsByName, classGroupIDsByCode map[string]int) *StudentMapper {
	return &StudentMapper{
		schoolIDsByName:     schoolIDsByName,
		classGroupIDsByCode: classGroupIDsByCode,
	}
}

func (m *StudentMapper) Map(rec ChildRecord) MappingResult[StudentWithFamily] {
	var warns []MappingWarning

	// Reference is the mandatory natural key: without it the record cannot
	// be reconciled on re-import, so it is rejected entirely.
	ref := strings.TrimSpace(rec.Reference)
	if ref == "" {
		return Fail[StudentWithFamily](warns, MappingError{Field: "Reference", Message: "Reference is required"})
	}

	stu := student.Student{
		LegacyID:  null.StringFrom(ref),
		FirstName: truncate("First Name", strings.TrimSpace(rec.FirstName.String), &warns),
		LastName:  truncate("Last Name", strings.TrimSpace(rec.LastName.String), &warns),
		Gender:    trimmed(rec.Gender),
		Notes:     trimmed(rec.Notes),
	}

	// the raw school name / group code is kept even when it resolves
	stu.SchoolName = trimmed(rec.School)
	if stu.SchoolName.Valid && m.schoolIDsByName != nil {
		if id, ok := m.schoolIDsByName[stu.SchoolName.String]; ok {
			stu.SchoolID = null.IntFrom(id)
		} else {
			warns = append(warns, demotion(
				"School",
				fmt.Sprintf("school %q has not been imported; reference cleared", stu.SchoolName.String),
				stu.SchoolName.String,
			))
		}
	}
	stu.ClassGroupCode = trimmed(rec.ClassGroup)
	if stu.ClassGroupCode.Valid && m.classGroupIDsByCode != nil {
		if id, ok := m.classGroupIDsByCode[stu.ClassGroupCode.String]; ok {
			stu.ClassGroupID = null.IntFrom(id)
		} else {
			warns = append(warns, demotion(
				"Class Group",
				fmt.Sprintf("class group %q has not been imported; reference cleared", stu.ClassGroupCode.String),
				stu.ClassGroupCode.String,
			))
		}
	}

	stu.DateOfBirth = m.mapDate("Date of Birth", rec.DateOfBirth, &warns)
	stu.EntryDate = m.mapDate("Entry Date", rec.EntryDate, &warns)
	stu.LeaveDate = m.mapDate("Leave Date", rec.LeaveDate, &warns)
	stu.RegistrationDate = m.mapDate("Registration Date", rec.RegistrationDate, &warns)
	stu.FirstContactDate = m.mapDate("First Contact Date", rec.FirstContactDate, &warns)
	stu.IntakeDate = m.mapDate("Intake Date", rec.IntakeDate, &warns)
	stu.WaitingListDate = m.mapDate("Waiting List Date", rec.WaitingListDate, &warns)
	stu.DepositDate = m.mapDate("Deposit Date", rec.DepositDate, &warns)
	stu.ContractStart = m.mapDate("Contract Start", rec.ContractStart, &warns)
	stu.ContractEnd = m.mapDate("Contract End", rec.ContractEnd, &warns)
	stu.MedicalCheckDate = m.mapDate("Medical Check Date", rec.MedicalCheckDate, &warns)
	stu.VaccinationDate = m.mapDate("Vaccination Date", rec.VaccinationDate, &warns)
	stu.PhotoConsentDate = m.mapDate("Photo Consent Date", rec.PhotoConsentDate, &warns)
	stu.LastInvoiceDate = m.mapDate("Last Invoice Date", rec.LastInvoiceDate, &warns)
	stu.LastPaymentDate = m.mapDate("Last Payment Date", rec.LastPaymentDate, &warns)

	if raw := strings.TrimSpace(rec.Charge.String); raw != "" {
		if d, ok := parseLegacyDecimal(raw); ok {
			stu.Charge = decimal.NewNullDecimal(d)
		} else {
			warns = append(warns, demotion("Charge", fmt.Sprintf("cannot parse charge %q; cleared", raw), raw))
		}
	}

	stu.Invoiced = parseLegacyBool(rec.Invoiced.String)
	stu.PhotoAllowed = parseLegacyBool(rec.PhotoAllowed.String)
	stu.HasAllergies = parseLegacyBool(rec.Allergies.String)

	return Ok(StudentWithFamily{Student: stu, Family: m.extractFamily(rec)}, warns...)
}

func (m *StudentMapper) MapMany(recs []ChildRecord) BatchResult[StudentWithFamily] {
	return mapMany(recs, m.Map)
}

func (m *StudentMapper) mapDate(field string, val null.String, warns *[]MappingWarning) null.Time {
	raw := strings.TrimSpace(val.String)
	if raw == "" {
		return null.Time{}
	}
	t, ok := parseLegacyDate(raw)
	if !ok {
		*warns = append(*warns, demotion(field, fmt.Sprintf("cannot parse date %q; cleared", raw), raw))
		return null.Time{}
	}
	return null.TimeFrom(t)
}

// extractFamily builds a FamilyInfo from the record's billing contact fields
// when a family grouping code is present. The primary contact is the first of
// account holder, mother, father that has a name.
func (m *StudentMapper) extractFamily(rec ChildRecord) *FamilyInfo {
	code := strings.TrimSpace(rec.FamilyCode.String)
	if code == "" {
		return nil
	}

	fam := &FamilyInfo{FamilyName: code}
	switch {
	case trimmed(rec.AccountName).Valid:
		fam.PrimaryContactName = trimmed(rec.AccountName)
		fam.Phone = trimmed(rec.AccountPhone)
		fam.Email = trimmed(rec.AccountEmail)
	case trimmed(rec.MotherName).Valid:
		fam.PrimaryContactName = trimmed(rec.MotherName)
		fam.Phone = trimmed(rec.MotherPhone)
		fam.Email = trimmed(rec.MotherEmail)
	case trimmed(rec.FatherName).Valid:
		fam.PrimaryContactName = trimmed(rec.FatherName)
		fam.Phone = trimmed(rec.FatherPhone)
		fam.Email = trimmed(rec.FatherEmail)
	}

	var parts []string
	for _, p := range []null.String{rec.Address1, rec.Address2, rec.City} {
		if t := trimmed(p); t.Valid {
			parts = append(parts, t.String)
		}
	}
	if len(parts) > 0 {
		fam.Address = null.StringFrom(strings.Join(parts, ", "))
	}
	return fam
}
