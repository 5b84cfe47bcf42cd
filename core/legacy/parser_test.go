package legacy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const schoolXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="School">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="SchoolId" type="xsd:string"/>
        <xsd:element name="Short_x0020_School" type="xsd:string"/>
        <xsd:element name="School_x0020_Description" type="xsd:string"/>
        <xsd:element name="Truck" type="xsd:int"/>
        <xsd:element name="Price" type="xsd:double"/>
        <xsd:element name="Comments">
          <xsd:simpleType>
            <xsd:restriction base="xsd:string"/>
          </xsd:simpleType>
        </xsd:element>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
</xsd:schema>`

func writeExtract(t *testing.T, xmlContent, xsdContent string) (xmlPath, xsdPath string) {
	t.Helper()
	dir := t.TempDir()
	xmlPath = filepath.Join(dir, "School.xml")
	xsdPath = filepath.Join(dir, "School.xsd")
	if err := os.WriteFile(xmlPath, []byte(xmlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xsdPath, []byte(xsdContent), 0o644); err != nil {
		t.Fatal(err)
	}
	return xmlPath, xsdPath
}

func TestParseSchools(t *testing.T) {
	xmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School>
    <SchoolId>S001</SchoolId>
    <Short_x0020_School>Sunny</Short_x0020_School>
    <School_x0020_Description>Sunny Daycare</School_x0020_Description>
    <Truck>2</Truck>
    <Price>12.50</Price>
    <Comments>best school</Comments>
  </School>
  <School>
    <SchoolId>S002</SchoolId>
  </School>
</dataroot>`

	res := ParseSchools(writeExtract(t, xmlContent, schoolXSD))
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}

	rec := res.Records[0]
	if rec.SchoolID != "S001" {
		t.Errorf("SchoolID = %q, want S001", rec.SchoolID)
	}
	if rec.ShortSchool.String != "Sunny" {
		t.Errorf("ShortSchool = %q, want Sunny", rec.ShortSchool.String)
	}
	if rec.SchoolDescription.String != "Sunny Daycare" {
		t.Errorf("SchoolDescription = %q, want Sunny Daycare", rec.SchoolDescription.String)
	}
	if !rec.Truck.Valid || rec.Truck.Int != 2 {
		t.Errorf("Truck = %+v, want 2", rec.Truck)
	}
	if !rec.Price.Valid || rec.Price.Float64 != 12.50 {
		t.Errorf("Price = %+v, want 12.50", rec.Price)
	}

	// absent optional columns parse as null
	sparse := res.Records[1]
	if sparse.ShortSchool.Valid || sparse.Truck.Valid || sparse.Price.Valid {
		t.Errorf("sparse record has non-null optionals: %+v", sparse)
	}
}

func TestParseSchoolsValueViolationKeepsRecord(t *testing.T) {
	xmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School>
    <SchoolId>S001</SchoolId>
    <Truck>not-a-number</Truck>
  </School>
</dataroot>`

	res := ParseSchools(writeExtract(t, xmlContent, schoolXSD))
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1 (value violations keep the record)", len(res.Records))
	}
	if res.Records[0].Truck.Valid {
		t.Error("invalid Truck value was not defaulted to null")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	pe := res.Errors[0]
	if pe.Source != "School.xml" {
		t.Errorf("Source = %q, want School.xml", pe.Source)
	}
	if pe.Line == 0 {
		t.Error("Line = 0, want the record's line")
	}
	// the declared XSD type and the offending value are both named
	if !strings.Contains(pe.Message, "int") || !strings.Contains(pe.Message, "not-a-number") {
		t.Errorf("message %q does not name type and value", pe.Message)
	}
}

func TestParseSchoolsStructuralErrorDropsRemainder(t *testing.T) {
	xmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School>
    <SchoolId>S001</SchoolId>
  </School>
  <School>
    <SchoolId>S002
</dataroot>`

	res := ParseSchools(writeExtract(t, xmlContent, schoolXSD))
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1 (records before the malformation are kept)", len(res.Records))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	if res.Errors[0].Line == 0 {
		t.Error("structural error carries no line")
	}
}

func TestParseSchoolsMissingFile(t *testing.T) {
	dir := t.TempDir()
	res := ParseSchools(filepath.Join(dir, "School.xml"), filepath.Join(dir, "School.xsd"))
	if len(res.Records) != 0 {
		t.Errorf("records = %d, want 0", len(res.Records))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
}

func TestParseSchoolsMissingXSDStillParses(t *testing.T) {
	xmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School><SchoolId>S001</SchoolId></School>
</dataroot>`
	xmlPath, xsdPath := writeExtract(t, xmlContent, schoolXSD)
	if err := os.Remove(xsdPath); err != nil {
		t.Fatal(err)
	}

	res := ParseSchools(xmlPath, xsdPath)
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1 (type checks disabled, parse proceeds)", len(res.Records))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1 for the unreadable schema", len(res.Errors))
	}
	if res.Errors[0].Source != "School.xsd" {
		t.Errorf("Source = %q, want School.xsd", res.Errors[0].Source)
	}
}

func TestParseSchoolsWindows1252(t *testing.T) {
	// 0xE9 is é in windows-1252
	xmlContent := "<?xml version=\"1.0\" encoding=\"windows-1252\"?>\n" +
		"<dataroot><School><SchoolId>S001</SchoolId>" +
		"<School_x0020_Description>\xC9cole priv\xE9e</School_x0020_Description>" +
		"</School></dataroot>"

	res := ParseSchools(writeExtract(t, xmlContent, schoolXSD))
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if got := res.Records[0].SchoolDescription.String; got != "École privée" {
		t.Errorf("SchoolDescription = %q, want École privée", got)
	}
}

func TestParseClassGroupsAccessEscapedRecordName(t *testing.T) {
	xsdContent := `<?xml version="1.0"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="Class_x0020_Group">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="Class_x0020_Group_x0020_Code" type="xsd:string"/>
        <xsd:element name="Import" type="xsd:boolean"/>
        <xsd:element name="SchoolId" type="xsd:int"/>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
</xsd:schema>`
	xmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Class_x0020_Group>
    <Class_x0020_Group_x0020_Code>CG01</Class_x0020_Group_x0020_Code>
    <Import>-1</Import>
    <SchoolId>3</SchoolId>
    <Start_x0020_Time>09:00:00</Start_x0020_Time>
  </Class_x0020_Group>
</dataroot>`

	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "Class Group.xml")
	xsdPath := filepath.Join(dir, "Class Group.xsd")
	if err := os.WriteFile(xmlPath, []byte(xmlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xsdPath, []byte(xsdContent), 0o644); err != nil {
		t.Fatal(err)
	}

	res := ParseClassGroups(xmlPath, xsdPath)
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Code != "CG01" {
		t.Errorf("Code = %q, want CG01", rec.Code)
	}
	if !rec.Import {
		t.Error("Import = false, want true (Access TRUE is -1)")
	}
	if !rec.SchoolID.Valid || rec.SchoolID.Int != 3 {
		t.Errorf("SchoolID = %+v, want 3", rec.SchoolID)
	}
	if rec.StartTime.String != "09:00:00" {
		t.Errorf("StartTime = %q, want 09:00:00", rec.StartTime.String)
	}
}
