package legacy

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
	"golang.org/x/text/encoding/charmap"
)

// ParseError is one schema or structural violation found while reading a
// legacy extract. Line is 0 when no line can be attributed.
type ParseError struct {
	Source  string
	Line    int
	Message string
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// ParseResult carries the best-effort outcome of parsing one extract:
// every record that could be read, plus every violation found on the way.
// Value-level XSD violations do not drop records; structural XML malformation
// drops the remainder of the file.
type ParseResult[T any] struct {
	Records []T
	Errors  []ParseError
}

func (r ParseResult[T]) HasErrors() bool { return len(r.Errors) > 0 }

// ParseSchools reads the "School" extract.
func ParseSchools(xmlPath, xsdPath string) ParseResult[SchoolRecord] {
	return parseFile(xmlPath, xsdPath, "School", buildSchoolRecord)
}

// ParseClassGroups reads the "Class Group" extract.
func ParseClassGroups(xmlPath, xsdPath string) ParseResult[ClassGroupRecord] {
	return parseFile(xmlPath, xsdPath, "Class Group", buildClassGroupRecord)
}

// ParseActivities reads the "Activity" extract.
func ParseActivities(xmlPath, xsdPath string) ParseResult[ActivityRecord] {
	return parseFile(xmlPath, xsdPath, "Activity", buildActivityRecord)
}

// ParseChildren reads the "Children" extract.
func ParseChildren(xmlPath, xsdPath string) ParseResult[ChildRecord] {
	return parseFile(xmlPath, xsdPath, "Children", buildChildRecord)
}

func parseFile[T any](xmlPath, xsdPath, recordElem string, build func(row) T) ParseResult[T] {
	var res ParseResult[T]
	source := filepath.Base(xmlPath)

	raw, err := os.ReadFile(xmlPath)
	if err != nil {
		res.Errors = append(res.Errors, ParseError{Source: source, Message: err.Error()})
		return res
	}

	schema, err := readSchema(xsdPath)
	if err != nil {
		res.Errors = append(res.Errors, ParseError{Source: filepath.Base(xsdPath), Message: err.Error()})
		// type checks are disabled but parsing proceeds
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = charsetReader

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// structural malformation: record it and stop; earlier records are kept
			pe := ParseError{Source: source, Message: err.Error()}
			if syntaxErr, ok := err.(*xml.SyntaxError); ok {
				pe.Line = syntaxErr.Line
				pe.Message = syntaxErr.Msg
			}
			res.Errors = append(res.Errors, pe)
			break
		}

		start, ok := tok.(xml.StartElement)
		if !ok || decodeAccessName(start.Name.Local) != recordElem {
			continue
		}

		line := 1 + bytes.Count(raw[:dec.InputOffset()], []byte("\n"))
		fields, err := scanRow(dec, start)
		if err != nil {
			pe := ParseError{Source: source, Message: err.Error()}
			if syntaxErr, ok := err.(*xml.SyntaxError); ok {
				pe.Line = syntaxErr.Line
				pe.Message = syntaxErr.Msg
			}
			res.Errors = append(res.Errors, pe)
			break
		}

		res.Records = append(res.Records, build(row{
			source: source,
			line:   line,
			fields: fields,
			schema: schema,
			errs:   &res.Errors,
		}))
	}
	return res
}

// scanRow collects the direct child elements of one record element into a
// column name -> text map, decoding Access-escaped element names.
func scanRow(dec *xml.Decoder, start xml.StartElement) (map[string]string, error) {
	fields := make(map[string]string)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value strings.Builder
			depth := 1
			for depth > 0 {
				inner, err := dec.Token()
				if err != nil {
					return nil, err
				}
				switch it := inner.(type) {
				case xml.StartElement:
					depth++
				case xml.EndElement:
					depth--
				case xml.CharData:
					value.Write(it)
				}
			}
			fields[decodeAccessName(t.Name.Local)] = value.String()
		case xml.EndElement:
			if t.Name == start.Name {
				return fields, nil
			}
		}
	}
}

// charsetReader handles the single-byte encodings Access extracts commonly
// declare. UTF-8/UTF-16 are handled by encoding/xml itself.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// row is one scanned record with typed accessors. Value-level violations are
// recorded as ParseErrors on the shared sink; the field is defaulted and the
// record kept (best-effort parse).
type row struct {
	source string
	line   int
	fields map[string]string
	schema *xsdSchema
	errs   *[]ParseError
}

func (r row) addErr(col, msg string) {
	*r.errs = append(*r.errs, ParseError{Source: r.source, Line: r.line, Message: fmt.Sprintf("%s: %s", col, msg)})
}

func (r row) str(col string) string { return r.fields[col] }

func (r row) nullStr(col string) null.String {
	v, ok := r.fields[col]
	return null.NewString(v, ok && v != "")
}

func (r row) nullInt(col string) null.Int {
	v := strings.TrimSpace(r.fields[col])
	if v == "" {
		return null.Int{}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.addErr(col, fmt.Sprintf("invalid %s value %q", r.declaredType(col, "int"), v))
		return null.Int{}
	}
	return null.IntFrom(n)
}

func (r row) nullFloat(col string) null.Float64 {
	v := strings.TrimSpace(r.fields[col])
	if v == "" {
		return null.Float64{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.addErr(col, fmt.Sprintf("invalid %s value %q", r.declaredType(col, "double"), v))
		return null.Float64{}
	}
	return null.Float64From(f)
}

func (r row) boolean(col string) bool {
	switch strings.ToLower(strings.TrimSpace(r.fields[col])) {
	case "1", "-1", "true", "yes":
		return true
	case "", "0", "false", "no":
		return false
	}
	r.addErr(col, fmt.Sprintf("invalid %s value %q", r.declaredType(col, "boolean"), r.fields[col]))
	return false
}

func (r row) declaredType(col, fallback string) string {
	if t := r.schema.typeOf(col); t != "" {
		return t
	}
	return fallback
}

// Legacy column names, as decoded from the Access element-name escaping.
const (
	colSchoolID          = "SchoolId"
	colShortSchool       = "Short School"
	colSchoolDescription = "School Description"
	colTruck             = "Truck"
	colPrice             = "Price"
	colFormula           = "Formula"
	colComments          = "Comments"

	colClassGroupCode = "Class Group Code"
	colDescription    = "Description"
	colImport         = "Import"
	colDayID          = "DayId"
	colSequence       = "Sequence"
	colStartTime      = "Start Time"
	colEndTime        = "End Time"
	colDayTruck       = "Day Truck"

	colActivityID = "ActivityId"
	colIcon       = "Icon"
)

func buildSchoolRecord(r row) SchoolRecord {
	return SchoolRecord{
		SchoolID:          r.str(colSchoolID),
		ShortSchool:       r.nullStr(colShortSchool),
		SchoolDescription: r.nullStr(colSchoolDescription),
		Truck:             r.nullInt(colTruck),
		Price:             r.nullFloat(colPrice),
		Formula:           r.nullFloat(colFormula),
		Comments:          r.nullStr(colComments),
	}
}

func buildClassGroupRecord(r row) ClassGroupRecord {
	return ClassGroupRecord{
		Code:        r.str(colClassGroupCode),
		Description: r.nullStr(colDescription),
		Import:      r.boolean(colImport),
		SchoolID:    r.nullInt(colSchoolID),
		DayID:       r.nullStr(colDayID),
		Sequence:    r.nullStr(colSequence),
		StartTime:   r.nullStr(colStartTime),
		EndTime:     r.nullStr(colEndTime),
		DayTruck:    r.nullInt(colDayTruck),
		Comments:    r.nullStr(colComments),
	}
}

func buildActivityRecord(r row) ActivityRecord {
	return ActivityRecord{
		ActivityID:  r.str(colActivityID),
		Description: r.nullStr(colDescription),
		Icon:        r.nullStr(colIcon),
		Comments:    r.nullStr(colComments),
	}
}

func buildChildRecord(r row) ChildRecord {
	return ChildRecord{
		Reference:  r.str("Reference"),
		FirstName:  r.nullStr("First Name"),
		LastName:   r.nullStr("Last Name"),
		Gender:     r.nullStr("Gender"),
		School:     r.nullStr("School"),
		ClassGroup: r.nullStr("Class Group"),
		FamilyCode: r.nullStr("Family Code"),

		AccountName:  r.nullStr("Account Name"),
		AccountPhone: r.nullStr("Account Phone"),
		AccountEmail: r.nullStr("Account Email"),
		MotherName:   r.nullStr("Mother Name"),
		MotherPhone:  r.nullStr("Mother Phone"),
		MotherEmail:  r.nullStr("Mother Email"),
		FatherName:   r.nullStr("Father Name"),
		FatherPhone:  r.nullStr("Father Phone"),
		FatherEmail:  r.nullStr("Father Email"),

		Address1: r.nullStr("Address 1"),
		Address2: r.nullStr("Address 2"),
		City:     r.nullStr("City"),

		DateOfBirth:      r.nullStr("Date of Birth"),
		EntryDate:        r.nullStr("Entry Date"),
		LeaveDate:        r.nullStr("Leave Date"),
		RegistrationDate: r.nullStr("Registration Date"),
		FirstContactDate: r.nullStr("First Contact Date"),
		IntakeDate:       r.nullStr("Intake Date"),
		WaitingListDate:  r.nullStr("Waiting List Date"),
		DepositDate:      r.nullStr("Deposit Date"),
		ContractStart:    r.nullStr("Contract Start"),
		ContractEnd:      r.nullStr("Contract End"),
		MedicalCheckDate: r.nullStr("Medical Check Date"),
		VaccinationDate:  r.nullStr("Vaccination Date"),
		PhotoConsentDate: r.nullStr("Photo Consent Date"),
		LastInvoiceDate:  r.nullStr("Last Invoice Date"),
		LastPaymentDate:  r.nullStr("Last Payment Date"),

		Charge:       r.nullStr("Charge"),
		Invoiced:     r.nullStr("Invoiced"),
		PhotoAllowed: r.nullStr("Photo Allowed"),
		Allergies:    r.nullStr("Allergies"),
		Notes:        r.nullStr("Notes"),
	}
}
