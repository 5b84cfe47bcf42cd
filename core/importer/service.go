package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/activity"
	"github.com/trezcool/chekechea/core/classgroup"
	"github.com/trezcool/chekechea/core/legacy"
	"github.com/trezcool/chekechea/core/school"
	"github.com/trezcool/chekechea/core/student"
	"github.com/trezcool/chekechea/core/truck"
)

// Legacy extract layout: one subfolder per entity family, fixed file names.
// The absence of either file silently skips the family; partial exports are
// a supported input, not an error.
const (
	schoolSubdir     = "1_School"
	classGroupSubdir = "2_Class_Group"
	activitySubdir   = "3_Activity"
	childrenSubdir   = "4_Children"

	schoolBase     = "School"
	classGroupBase = "Class Group"
	activityBase   = "Activity"
	childrenBase   = "Children"
)

type (
	Service struct {
		db          core.DB
		log         core.Logger
		trucks      truck.Repository
		schools     school.Repository
		classGroups classgroup.Repository
		activities  activity.Repository
		students    student.Repository
		families    student.FamilyRepository
	}

	// Options configures one import run.
	Options struct {
		Dir  string `json:"dir" validate:"required"`
		Mode ConflictResolutionMode
	}
)

func (o Options) Validate() error {
	return core.TranslateValidationError(core.Validate.Struct(o))
}

func NewService(
	db core.DB,
	log core.Logger,
	trucks truck.Repository,
	schools school.Repository,
	classGroups classgroup.Repository,
	activities activity.Repository,
	students student.Repository,
	families student.FamilyRepository,
) *Service {
	return &Service{
		db:          db,
		log:         log,
		trucks:      trucks,
		schools:     schools,
		classGroups: classGroups,
		activities:  activities,
		students:    students,
		families:    families,
	}
}

// Run executes one import in fixed dependency order:
// Schools -> Class Groups -> Activities -> Students.
// The run always completes and returns a summary even when individual
// records fail; only a missing extract (whole family skipped) and a
// FailOnConflict collision (run aborted, family rolled back) change control
// flow beyond per-record bookkeeping.
func (svc *Service) Run(ctx context.Context, opts Options) (*ImportExecutionResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	res := &ImportExecutionResult{RunID: uuid.New(), Mode: opts.Mode, StartedAt: start}
	defer func() { res.Duration = time.Since(start) }()

	svc.log.Info(fmt.Sprintf("import run %s started (mode=%s, dir=%s)", res.RunID, opts.Mode, opts.Dir))

	steps := []func(context.Context, Options, *ImportExecutionResult) error{
		svc.importSchools,
		svc.importClassGroups,
		svc.importActivities,
		svc.importStudents,
	}
	for _, step := range steps {
		if err := step(ctx, opts, res); err != nil {
			return res, err
		}
	}

	svc.log.Info(fmt.Sprintf(
		"import run %s done: %d imported, %d updated, %d skipped, %d failed",
		res.RunID, res.TotalImported(), res.TotalUpdated(), res.TotalSkipped(), res.TotalFailed()))
	return res, nil
}

func (svc *Service) importSchools(ctx context.Context, opts Options, res *ImportExecutionResult) error {
	xmlPath, xsdPath, ok := extractPaths(opts.Dir, schoolSubdir, schoolBase)
	if !ok {
		svc.log.Info("no school extract found; skipping schools")
		return nil
	}
	parsed := legacy.ParseSchools(xmlPath, xsdPath)
	svc.addParseErrors(res, "School", parsed.Errors)

	truckIDs, err := svc.trucks.QueryTruckIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "querying truck ids")
	}

	mapper := legacy.NewSchoolMapper(legacy.NewIDSet(truckIDs...))
	entities, err := collectMapped(ctx, svc, "School", parsed.Records,
		func(r legacy.SchoolRecord) string { return strings.TrimSpace(r.SchoolID) },
		mapper.Map, &res.Schools, &res.Exceptions)
	if err != nil {
		return err
	}
	return reconcile(ctx, svc.db, opts.Mode, entities, svc.schoolOps(), &res.Schools, &res.Exceptions)
}

func (svc *Service) importClassGroups(ctx context.Context, opts Options, res *ImportExecutionResult) error {
	xmlPath, xsdPath, ok := extractPaths(opts.Dir, classGroupSubdir, classGroupBase)
	if !ok {
		svc.log.Info("no class group extract found; skipping class groups")
		return nil
	}
	parsed := legacy.ParseClassGroups(xmlPath, xsdPath)
	svc.addParseErrors(res, "ClassGroup", parsed.Errors)

	schoolIDs, err := svc.schools.QuerySchoolIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "querying school ids")
	}
	truckIDs, err := svc.trucks.QueryTruckIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "querying truck ids")
	}

	mapper := legacy.NewClassGroupMapper(legacy.NewIDSet(schoolIDs...), legacy.NewIDSet(truckIDs...))
	entities, err := collectMapped(ctx, svc, "ClassGroup", parsed.Records,
		func(r legacy.ClassGroupRecord) string { return strings.TrimSpace(r.Code) },
		mapper.Map, &res.ClassGroups, &res.Exceptions)
	if err != nil {
		return err
	}
	return reconcile(ctx, svc.db, opts.Mode, entities, svc.classGroupOps(), &res.ClassGroups, &res.Exceptions)
}

func (svc *Service) importActivities(ctx context.Context, opts Options, res *ImportExecutionResult) error {
	xmlPath, xsdPath, ok := extractPaths(opts.Dir, activitySubdir, activityBase)
	if !ok {
		svc.log.Info("no activity extract found; skipping activities")
		return nil
	}
	parsed := legacy.ParseActivities(xmlPath, xsdPath)
	svc.addParseErrors(res, "Activity", parsed.Errors)

	mapper := legacy.NewActivityMapper()
	entities, err := collectMapped(ctx, svc, "Activity", parsed.Records,
		func(r legacy.ActivityRecord) string { return strings.TrimSpace(r.ActivityID) },
		mapper.Map, &res.Activities, &res.Exceptions)
	if err != nil {
		return err
	}
	return reconcile(ctx, svc.db, opts.Mode, entities, svc.activityOps(), &res.Activities, &res.Exceptions)
}

func (svc *Service) importStudents(ctx context.Context, opts Options, res *ImportExecutionResult) error {
	xmlPath, xsdPath, ok := extractPaths(opts.Dir, childrenSubdir, childrenBase)
	if !ok {
		svc.log.Info("no children extract found; skipping students")
		return nil
	}
	parsed := legacy.ParseChildren(xmlPath, xsdPath)
	svc.addParseErrors(res, "Student", parsed.Errors)

	schoolsByName, err := svc.schools.SchoolIDsByName(ctx)
	if err != nil {
		return errors.Wrap(err, "querying school names")
	}
	groupsByCode, err := svc.classGroups.ClassGroupIDsByCode(ctx)
	if err != nil {
		return errors.Wrap(err, "querying class group codes")
	}

	mapper := legacy.NewStudentMapper(schoolsByName, groupsByCode)
	entities, err := collectMapped(ctx, svc, "Student", parsed.Records,
		func(r legacy.ChildRecord) string { return strings.TrimSpace(r.Reference) },
		mapper.Map, &res.Students, &res.Exceptions)
	if err != nil {
		return err
	}
	return reconcile(ctx, svc.db, opts.Mode, entities, svc.studentOps(), &res.Students, &res.Exceptions)
}

// collectMapped maps all parsed records of one family, counting skips and
// rejections. One record's rejection never aborts the batch; warnings are
// logged, errors become ImportExceptions attributed to the record's legacy id.
func collectMapped[R, E any](
	ctx context.Context,
	svc *Service,
	entityType string,
	records []R,
	legacyID func(R) string,
	mapOne func(R) legacy.MappingResult[E],
	res *EntityImportResult,
	excs *[]ImportException,
) ([]E, error) {
	entities := make([]E, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mres := mapOne(rec)
		lid := legacyID(rec)
		for _, w := range mres.Warnings {
			if w.Field == legacy.SkipField {
				continue
			}
			svc.log.Warn(fmt.Sprintf("%s %q: %s: %s", entityType, lid, w.Field, w.Message))
		}
		switch {
		case mres.IsSkipped():
			res.Skipped++
		case !mres.Success():
			res.Failed++
			for _, e := range mres.Errors {
				*excs = append(*excs, ImportException{
					EntityType: entityType,
					LegacyID:   lid,
					Field:      e.Field,
					Reason:     e.Message,
				})
			}
		default:
			entities = append(entities, *mres.Data)
		}
	}
	return entities, nil
}

func (svc *Service) addParseErrors(res *ImportExecutionResult, entityType string, parseErrs []legacy.ParseError) {
	for _, pe := range parseErrs {
		svc.log.Warn(fmt.Sprintf("%s extract: %s", entityType, pe.Error()))
		res.Exceptions = append(res.Exceptions, ImportException{
			EntityType: entityType,
			Field:      "_parse",
			Reason:     pe.Error(),
		})
	}
}

func extractPaths(dir, subdir, base string) (xmlPath, xsdPath string, ok bool) {
	xmlPath = filepath.Join(dir, subdir, base+".xml")
	xsdPath = filepath.Join(dir, subdir, base+".xsd")
	if _, err := os.Stat(xmlPath); err != nil {
		return "", "", false
	}
	if _, err := os.Stat(xsdPath); err != nil {
		return "", "", false
	}
	return xmlPath, xsdPath, true
}

func validateEntity(e interface{}) error {
	return core.TranslateValidationError(core.Validate.Struct(e))
}

func (svc *Service) schoolOps() entityOps[school.School] {
	return entityOps[school.School]{
		entityType: "School",
		legacyID:   func(s school.School) string { return s.LegacyID.String },
		find: func(ctx context.Context, exec []core.DBExecutor, legacyID string) (school.School, bool, error) {
			sch, err := svc.schools.GetSchoolByLegacyID(ctx, legacyID, exec...)
			if err == school.ErrNotFound {
				return school.School{}, false, nil
			}
			if err != nil {
				return school.School{}, false, err
			}
			return sch, true, nil
		},
		insert: func(ctx context.Context, exec []core.DBExecutor, sch school.School) error {
			if err := validateEntity(sch); err != nil {
				return err
			}
			now := time.Now().UTC()
			sch.IsActive = true
			sch.CreatedAt, sch.UpdatedAt = now, now
			_, err := svc.schools.CreateSchool(ctx, sch, exec...)
			return err
		},
		update: func(ctx context.Context, exec []core.DBExecutor, existing, incoming school.School) error {
			if err := validateEntity(incoming); err != nil {
				return err
			}
			incoming.ID = existing.ID
			incoming.IsActive = existing.IsActive
			incoming.CreatedAt = existing.CreatedAt
			incoming.UpdatedAt = time.Now().UTC()
			_, err := svc.schools.UpdateSchool(ctx, incoming, exec...)
			return err
		},
	}
}

func (svc *Service) classGroupOps() entityOps[classgroup.ClassGroup] {
	return entityOps[classgroup.ClassGroup]{
		entityType: "ClassGroup",
		legacyID:   func(g classgroup.ClassGroup) string { return g.LegacyID.String },
		find: func(ctx context.Context, exec []core.DBExecutor, legacyID string) (classgroup.ClassGroup, bool, error) {
			grp, err := svc.classGroups.GetClassGroupByLegacyID(ctx, legacyID, exec...)
			if err == classgroup.ErrNotFound {
				return classgroup.ClassGroup{}, false, nil
			}
			if err != nil {
				return classgroup.ClassGroup{}, false, err
			}
			return grp, true, nil
		},
		insert: func(ctx context.Context, exec []core.DBExecutor, grp classgroup.ClassGroup) error {
			if err := validateEntity(grp); err != nil {
				return err
			}
			now := time.Now().UTC()
			grp.IsActive = true
			grp.CreatedAt, grp.UpdatedAt = now, now
			_, err := svc.classGroups.CreateClassGroup(ctx, grp, exec...)
			return err
		},
		update: func(ctx context.Context, exec []core.DBExecutor, existing, incoming classgroup.ClassGroup) error {
			if err := validateEntity(incoming); err != nil {
				return err
			}
			incoming.ID = existing.ID
			incoming.IsActive = existing.IsActive
			incoming.CreatedAt = existing.CreatedAt
			incoming.UpdatedAt = time.Now().UTC()
			_, err := svc.classGroups.UpdateClassGroup(ctx, incoming, exec...)
			return err
		},
	}
}

func (svc *Service) activityOps() entityOps[activity.Activity] {
	return entityOps[activity.Activity]{
		entityType: "Activity",
		legacyID:   func(a activity.Activity) string { return a.LegacyID.String },
		find: func(ctx context.Context, exec []core.DBExecutor, legacyID string) (activity.Activity, bool, error) {
			act, err := svc.activities.GetActivityByLegacyID(ctx, legacyID, exec...)
			if err == activity.ErrNotFound {
				return activity.Activity{}, false, nil
			}
			if err != nil {
				return activity.Activity{}, false, err
			}
			return act, true, nil
		},
		insert: func(ctx context.Context, exec []core.DBExecutor, act activity.Activity) error {
			if err := validateEntity(act); err != nil {
				return err
			}
			now := time.Now().UTC()
			act.IsActive = true
			act.CreatedAt, act.UpdatedAt = now, now
			_, err := svc.activities.CreateActivity(ctx, act, exec...)
			return err
		},
		update: func(ctx context.Context, exec []core.DBExecutor, existing, incoming activity.Activity) error {
			if err := validateEntity(incoming); err != nil {
				return err
			}
			incoming.ID = existing.ID
			incoming.IsActive = existing.IsActive
			incoming.CreatedAt = existing.CreatedAt
			incoming.UpdatedAt = time.Now().UTC()
			_, err := svc.activities.UpdateActivity(ctx, incoming, exec...)
			return err
		},
	}
}

func (svc *Service) studentOps() entityOps[legacy.StudentWithFamily] {
	// families are deduplicated by name across the whole run
	famCache := make(map[string]int)

	ensureFamily := func(ctx context.Context, exec []core.DBExecutor, fi *legacy.FamilyInfo) (null.Int, error) {
		if fi == nil {
			return null.Int{}, nil
		}
		if id, ok := famCache[fi.FamilyName]; ok {
			return null.IntFrom(id), nil
		}
		fam, err := svc.families.GetFamilyByName(ctx, fi.FamilyName, exec...)
		if err == student.ErrFamilyNotFound {
			now := time.Now().UTC()
			fam = student.Family{
				Name:        fi.FamilyName,
				ContactName: fi.PrimaryContactName,
				Phone:       fi.Phone,
				Email:       fi.Email,
				Address:     fi.Address,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			fam, err = svc.families.CreateFamily(ctx, fam, exec...)
		}
		if err != nil {
			return null.Int{}, err
		}
		famCache[fam.Name] = fam.ID
		return null.IntFrom(fam.ID), nil
	}

	return entityOps[legacy.StudentWithFamily]{
		entityType: "Student",
		legacyID:   func(sf legacy.StudentWithFamily) string { return sf.Student.LegacyID.String },
		find: func(ctx context.Context, exec []core.DBExecutor, legacyID string) (legacy.StudentWithFamily, bool, error) {
			stu, err := svc.students.GetStudentByLegacyID(ctx, legacyID, exec...)
			if err == student.ErrNotFound {
				return legacy.StudentWithFamily{}, false, nil
			}
			if err != nil {
				return legacy.StudentWithFamily{}, false, err
			}
			return legacy.StudentWithFamily{Student: stu}, true, nil
		},
		insert: func(ctx context.Context, exec []core.DBExecutor, sf legacy.StudentWithFamily) error {
			famID, err := ensureFamily(ctx, exec, sf.Family)
			if err != nil {
				return err
			}
			stu := sf.Student
			stu.FamilyID = famID
			if err = validateEntity(stu); err != nil {
				return err
			}
			now := time.Now().UTC()
			stu.IsActive = true
			stu.CreatedAt, stu.UpdatedAt = now, now
			_, err = svc.students.CreateStudent(ctx, stu, exec...)
			return err
		},
		update: func(ctx context.Context, exec []core.DBExecutor, existing, incoming legacy.StudentWithFamily) error {
			famID, err := ensureFamily(ctx, exec, incoming.Family)
			if err != nil {
				return err
			}
			stu := incoming.Student
			stu.FamilyID = famID
			if err = validateEntity(stu); err != nil {
				return err
			}
			stu.ID = existing.Student.ID
			stu.IsActive = existing.Student.IsActive
			stu.CreatedAt = existing.Student.CreatedAt
			stu.UpdatedAt = time.Now().UTC()
			_, err = svc.students.UpdateStudent(ctx, stu, exec...)
			return err
		},
	}
}
