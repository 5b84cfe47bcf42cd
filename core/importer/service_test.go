package importer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inmemdb "github.com/trezcool/chekechea/storage/database/inmem"
)

type testLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *testLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *testLogger) Debug(msg string, _ ...interface{}) {}
func (l *testLogger) Info(msg string, _ ...interface{})  {}
func (l *testLogger) Warn(msg string, _ ...interface{})  { l.log(msg) }
func (l *testLogger) Error(msg string, _ ...interface{}) { l.log(msg) }
func (l *testLogger) Fatal(msg string, _ ...interface{}) { l.log(msg) }

func newTestService(db *inmemdb.DB) *Service {
	return NewService(
		db,
		&testLogger{},
		inmemdb.NewTruckRepository(db),
		inmemdb.NewSchoolRepository(db),
		inmemdb.NewClassGroupRepository(db),
		inmemdb.NewActivityRepository(db),
		inmemdb.NewStudentRepository(db),
		inmemdb.NewFamilyRepository(db),
	)
}

const testXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"/>`

func writeFamily(t *testing.T, dir, subdir, base, xmlContent string) {
	t.Helper()
	famDir := filepath.Join(dir, subdir)
	require.NoError(t, os.MkdirAll(famDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(famDir, base+".xml"), []byte(xmlContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(famDir, base+".xsd"), []byte(testXSD), 0o644))
}

const schoolXML = `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School>
    <SchoolId>S001</SchoolId>
    <School_x0020_Description>Sunny Daycare</School_x0020_Description>
  </School>
</dataroot>`

const classGroupXML = `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Class_x0020_Group>
    <Class_x0020_Group_x0020_Code>CG01</Class_x0020_Group_x0020_Code>
    <Description>Judo Monday</Description>
    <Import>-1</Import>
    <SchoolId>1</SchoolId>
    <DayId>1</DayId>
    <Start_x0020_Time>09:00:00</Start_x0020_Time>
    <End_x0020_Time>10:30:00</End_x0020_Time>
  </Class_x0020_Group>
</dataroot>`

const activityXML = `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Activity>
    <ActivityId>A01</ActivityId>
    <Description>Judo</Description>
  </Activity>
</dataroot>`

const childrenXML = `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Children>
    <Reference>CH001</Reference>
    <First_x0020_Name>Amani</First_x0020_Name>
    <Last_x0020_Name>Mwangi</Last_x0020_Name>
    <School>Sunny Daycare</School>
    <Class_x0020_Group>CG01</Class_x0020_Group>
    <Family_x0020_Code>FAM1</Family_x0020_Code>
    <Mother_x0020_Name>Grace Mwangi</Mother_x0020_Name>
  </Children>
  <Children>
    <Reference>CH002</Reference>
    <First_x0020_Name>Baraka</First_x0020_Name>
    <Last_x0020_Name>Mwangi</Last_x0020_Name>
    <School>Sunny Daycare</School>
    <Family_x0020_Code>FAM1</Family_x0020_Code>
  </Children>
</dataroot>`

func writeFullExtract(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFamily(t, dir, "1_School", "School", schoolXML)
	writeFamily(t, dir, "2_Class_Group", "Class Group", classGroupXML)
	writeFamily(t, dir, "3_Activity", "Activity", activityXML)
	writeFamily(t, dir, "4_Children", "Children", childrenXML)
	return dir
}

func TestServiceRunFullImport(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)
	ctx := context.Background()

	res, err := svc.Run(ctx, Options{Dir: writeFullExtract(t), Mode: SkipExisting})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Schools.Imported)
	assert.Equal(t, 1, res.ClassGroups.Imported)
	assert.Equal(t, 1, res.Activities.Imported)
	assert.Equal(t, 2, res.Students.Imported)
	assert.Equal(t, 0, res.TotalFailed())
	assert.Empty(t, res.Exceptions)
	assert.Equal(t, 1.0, res.SuccessRate())
	assert.NotZero(t, res.RunID)

	// the student resolved its school and class group references
	stu, err := inmemdb.NewStudentRepository(db).GetStudentByLegacyID(ctx, "CH001")
	require.NoError(t, err)
	assert.True(t, stu.SchoolID.Valid)
	assert.True(t, stu.ClassGroupID.Valid)
	assert.True(t, stu.IsActive)
	assert.False(t, stu.CreatedAt.IsZero())

	// siblings share one family, keyed by the family grouping code
	fam, err := inmemdb.NewFamilyRepository(db).GetFamilyByName(ctx, "FAM1")
	require.NoError(t, err)
	assert.Equal(t, "Grace Mwangi", fam.ContactName.String)

	sibling, err := inmemdb.NewStudentRepository(db).GetStudentByLegacyID(ctx, "CH002")
	require.NoError(t, err)
	assert.Equal(t, stu.FamilyID, sibling.FamilyID)
	assert.Equal(t, fam.ID, stu.FamilyID.Int)
}

func TestServiceRunMissingFamiliesSkipped(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)

	dir := t.TempDir()
	writeFamily(t, dir, "1_School", "School", schoolXML)

	res, err := svc.Run(context.Background(), Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Schools.Imported)
	assert.Equal(t, 0, res.ClassGroups.Processed())
	assert.Equal(t, 0, res.Activities.Processed())
	assert.Equal(t, 0, res.Students.Processed())
	assert.Empty(t, res.Exceptions)
}

func TestServiceRunSkipExistingRerun(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)
	ctx := context.Background()
	dir := writeFullExtract(t)

	_, err := svc.Run(ctx, Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	res, err := svc.Run(ctx, Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalImported())
	assert.Equal(t, 1, res.Schools.Skipped)
	assert.Equal(t, 1, res.ClassGroups.Skipped)
	assert.Equal(t, 1, res.Activities.Skipped)
	assert.Equal(t, 2, res.Students.Skipped)

	// no duplicates were created
	ids, err := inmemdb.NewSchoolRepository(db).QuerySchoolIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestServiceRunUpdateRerun(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)
	ctx := context.Background()
	dir := writeFullExtract(t)

	_, err := svc.Run(ctx, Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)
	before, err := inmemdb.NewSchoolRepository(db).GetSchoolByLegacyID(ctx, "S001")
	require.NoError(t, err)

	res, err := svc.Run(ctx, Options{Dir: dir, Mode: Update})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalImported())
	assert.Equal(t, 1, res.Schools.Updated)
	assert.Equal(t, 2, res.Students.Updated)

	after, err := inmemdb.NewSchoolRepository(db).GetSchoolByLegacyID(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, "Sunny Daycare", after.Name)

	ids, err := inmemdb.NewSchoolRepository(db).QuerySchoolIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestServiceRunFailOnConflict(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)
	ctx := context.Background()
	dir := writeFullExtract(t)

	_, err := svc.Run(ctx, Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	res, err := svc.Run(ctx, Options{Dir: dir, Mode: FailOnConflict})
	require.Error(t, err)
	assert.Equal(t, ErrConflict, errors.Cause(err))

	require.NotNil(t, res)
	require.NotEmpty(t, res.Exceptions)
	exc := res.Exceptions[0]
	assert.Equal(t, "School", exc.EntityType)
	assert.Equal(t, "S001", exc.LegacyID)
	assert.Equal(t, "_conflict", exc.Field)

	// the aborted run left the store untouched
	ids, err := inmemdb.NewSchoolRepository(db).QuerySchoolIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestServiceRunMappingFailureRecorded(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)

	// a class group without a school cannot be imported
	badGroup := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Class_x0020_Group>
    <Class_x0020_Group_x0020_Code>CG01</Class_x0020_Group_x0020_Code>
    <Description>Orphan Group</Description>
    <Import>-1</Import>
  </Class_x0020_Group>
</dataroot>`
	dir := t.TempDir()
	writeFamily(t, dir, "2_Class_Group", "Class Group", badGroup)

	res, err := svc.Run(context.Background(), Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ClassGroups.Failed)
	assert.Equal(t, 0, res.ClassGroups.Imported)
	require.Len(t, res.Exceptions, 1)
	exc := res.Exceptions[0]
	assert.Equal(t, "ClassGroup", exc.EntityType)
	assert.Equal(t, "CG01", exc.LegacyID)
	assert.Equal(t, "SchoolId", exc.Field)
}

func TestServiceRunImportFlagSkips(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)

	flaggedOff := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <Class_x0020_Group>
    <Class_x0020_Group_x0020_Code>CG99</Class_x0020_Group_x0020_Code>
    <Description>Disabled Group</Description>
    <Import>0</Import>
    <SchoolId>1</SchoolId>
  </Class_x0020_Group>
</dataroot>`
	dir := t.TempDir()
	writeFamily(t, dir, "1_School", "School", schoolXML)
	writeFamily(t, dir, "2_Class_Group", "Class Group", flaggedOff)

	res, err := svc.Run(context.Background(), Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ClassGroups.Skipped)
	assert.Equal(t, 0, res.ClassGroups.Imported)
	assert.Empty(t, res.Exceptions)
}

func TestServiceRunParseErrorRecorded(t *testing.T) {
	db := inmemdb.NewDB()
	svc := newTestService(db)

	truncated := `<?xml version="1.0" encoding="UTF-8"?>
<dataroot>
  <School>
    <SchoolId>S001</SchoolId>
  </School>
  <School>
    <SchoolId>S002`
	dir := t.TempDir()
	writeFamily(t, dir, "1_School", "School", truncated)

	res, err := svc.Run(context.Background(), Options{Dir: dir, Mode: SkipExisting})
	require.NoError(t, err)

	// the record before the malformation is still imported
	assert.Equal(t, 1, res.Schools.Imported)
	require.NotEmpty(t, res.Exceptions)
	assert.Equal(t, "_parse", res.Exceptions[0].Field)
	assert.Equal(t, "School", res.Exceptions[0].EntityType)
}

func TestServiceRunValidatesOptions(t *testing.T) {
	svc := newTestService(inmemdb.NewDB())

	_, err := svc.Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestServiceRunCancelledContext(t *testing.T) {
	svc := newTestService(inmemdb.NewDB())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, Options{Dir: writeFullExtract(t), Mode: SkipExisting})
	assert.ErrorIs(t, err, context.Canceled)
}
