package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chekechea/core"
	"github.com/trezcool/chekechea/core/student"
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	const q = `
	INSERT INTO student (legacy_id, first_name, last_name, gender, school_id, school_name,
	                     class_group_id, class_group_code, family_id,
	                     date_of_birth, entry_date, leave_date, registration_date, first_contact_date,
	                     intake_date, waiting_list_date, deposit_date, contract_start, contract_end,
	                     medical_check_date, vaccination_date, photo_consent_date, last_invoice_date,
	                     last_payment_date, charge, invoiced, photo_allowed, has_allergies, notes,
	                     is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
	        $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &stu.ID, q,
		stu.LegacyID, stu.FirstName, stu.LastName, stu.Gender, stu.SchoolID, stu.SchoolName,
		stu.ClassGroupID, stu.ClassGroupCode, stu.FamilyID,
		stu.DateOfBirth, stu.EntryDate, stu.LeaveDate, stu.RegistrationDate, stu.FirstContactDate,
		stu.IntakeDate, stu.WaitingListDate, stu.DepositDate, stu.ContractStart, stu.ContractEnd,
		stu.MedicalCheckDate, stu.VaccinationDate, stu.PhotoConsentDate, stu.LastInvoiceDate,
		stu.LastPaymentDate, stu.Charge, stu.Invoiced, stu.PhotoAllowed, stu.HasAllergies, stu.Notes,
		stu.IsActive, stu.CreatedAt, stu.UpdatedAt)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return stu, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	const q = `
	UPDATE student
	SET legacy_id = $1, first_name = $2, last_name = $3, gender = $4, school_id = $5, school_name = $6,
	    class_group_id = $7, class_group_code = $8, family_id = $9,
	    date_of_birth = $10, entry_date = $11, leave_date = $12, registration_date = $13,
	    first_contact_date = $14, intake_date = $15, waiting_list_date = $16, deposit_date = $17,
	    contract_start = $18, contract_end = $19, medical_check_date = $20, vaccination_date = $21,
	    photo_consent_date = $22, last_invoice_date = $23, last_payment_date = $24,
	    charge = $25, invoiced = $26, photo_allowed = $27, has_allergies = $28, notes = $29,
	    is_active = $30, updated_at = $31
	WHERE id = $32`
	if _, err := repo.getExec(exec).ExecContext(ctx, q,
		stu.LegacyID, stu.FirstName, stu.LastName, stu.Gender, stu.SchoolID, stu.SchoolName,
		stu.ClassGroupID, stu.ClassGroupCode, stu.FamilyID,
		stu.DateOfBirth, stu.EntryDate, stu.LeaveDate, stu.RegistrationDate,
		stu.FirstContactDate, stu.IntakeDate, stu.WaitingListDate, stu.DepositDate,
		stu.ContractStart, stu.ContractEnd, stu.MedicalCheckDate, stu.VaccinationDate,
		stu.PhotoConsentDate, stu.LastInvoiceDate, stu.LastPaymentDate,
		stu.Charge, stu.Invoiced, stu.PhotoAllowed, stu.HasAllergies, stu.Notes,
		stu.IsActive, stu.UpdatedAt, stu.ID); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return stu, nil
}

func (repo studentRepository) GetStudentByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (student.Student, error) {
	const q = `SELECT * FROM student WHERE legacy_id = $1`
	var stu student.Student
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &stu, q, legacyID); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by legacy id")
	}
	return stu, nil
}

type familyRepository struct {
	exec core.DBExecutor
}

var _ student.FamilyRepository = (*familyRepository)(nil) // interface compliance check

func NewFamilyRepository(exec core.DBExecutor) *familyRepository {
	return &familyRepository{exec: exec}
}

func (repo familyRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

func (repo familyRepository) CreateFamily(ctx context.Context, fam student.Family, exec ...core.DBExecutor) (student.Family, error) {
	const q = `
	INSERT INTO family (name, contact_name, phone, email, address, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`
	err := sqlx.GetContext(ctx, repo.getExec(exec), &fam.ID, q,
		fam.Name, fam.ContactName, fam.Phone, fam.Email, fam.Address,
		fam.IsActive, fam.CreatedAt, fam.UpdatedAt)
	if err != nil {
		return student.Family{}, errors.Wrap(err, "inserting family")
	}
	return fam, nil
}

func (repo familyRepository) GetFamilyByName(ctx context.Context, name string, exec ...core.DBExecutor) (student.Family, error) {
	const q = `SELECT * FROM family WHERE name = $1`
	var fam student.Family
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &fam, q, name); err != nil {
		if err == sql.ErrNoRows {
			return student.Family{}, student.ErrFamilyNotFound
		}
		return student.Family{}, errors.Wrap(err, "finding family by name")
	}
	return fam, nil
}
