package student

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core"
)

var (
	ErrNotFound       = errors.New("student not found")
	ErrFamilyNotFound = errors.New("family not found")
)

// Family groups siblings under one billing contact. Families have no id of
// their own in the legacy extract; they are reconstructed from the family
// grouping code on student records and deduplicated by name.
type Family struct {
	ID          int         `db:"id" json:"id"`
	Name        string      `db:"name" json:"name" validate:"required,max=255"`
	ContactName null.String `db:"contact_name" json:"contact_name"`
	Phone       null.String `db:"phone" json:"phone"`
	Email       null.String `db:"email" json:"email"`
	Address     null.String `db:"address" json:"address"`
	IsActive    bool        `db:"is_active" json:"is_active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// Student is an enrolled child. LegacyID carries the historical Reference,
// the mandatory natural key of the legacy Children extract. SchoolName and
// ClassGroupCode keep the raw legacy values even when they could not be
// resolved to imported rows.
type Student struct {
	ID             int         `db:"id" json:"id"`
	LegacyID       null.String `db:"legacy_id" json:"legacy_id"`
	FirstName      string      `db:"first_name" json:"first_name" validate:"max=255"`
	LastName       string      `db:"last_name" json:"last_name" validate:"max=255"`
	Gender         null.String `db:"gender" json:"gender"`
	SchoolID       null.Int    `db:"school_id" json:"school_id"`
	SchoolName     null.String `db:"school_name" json:"school_name"`
	ClassGroupID   null.Int    `db:"class_group_id" json:"class_group_id"`
	ClassGroupCode null.String `db:"class_group_code" json:"class_group_code"`
	FamilyID       null.Int    `db:"family_id" json:"family_id"`

	DateOfBirth      null.Time `db:"date_of_birth" json:"date_of_birth"`
	EntryDate        null.Time `db:"entry_date" json:"entry_date"`
	LeaveDate        null.Time `db:"leave_date" json:"leave_date"`
	RegistrationDate null.Time `db:"registration_date" json:"registration_date"`
	FirstContactDate null.Time `db:"first_contact_date" json:"first_contact_date"`
	IntakeDate       null.Time `db:"intake_date" json:"intake_date"`
	WaitingListDate  null.Time `db:"waiting_list_date" json:"waiting_list_date"`
	DepositDate      null.Time `db:"deposit_date" json:"deposit_date"`
	ContractStart    null.Time `db:"contract_start" json:"contract_start"`
	ContractEnd      null.Time `db:"contract_end" json:"contract_end"`
	MedicalCheckDate null.Time `db:"medical_check_date" json:"medical_check_date"`
	VaccinationDate  null.Time `db:"vaccination_date" json:"vaccination_date"`
	PhotoConsentDate null.Time `db:"photo_consent_date" json:"photo_consent_date"`
	LastInvoiceDate  null.Time `db:"last_invoice_date" json:"last_invoice_date"`
	LastPaymentDate  null.Time `db:"last_payment_date" json:"last_payment_date"`

	Charge       decimal.NullDecimal `db:"charge" json:"charge"`
	Invoiced     bool                `db:"invoiced" json:"invoiced"`
	PhotoAllowed bool                `db:"photo_allowed" json:"photo_allowed"`
	HasAllergies bool                `db:"has_allergies" json:"has_allergies"`
	Notes        null.String         `db:"notes" json:"notes"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
}

type Repository interface {
	CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
	UpdateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
	GetStudentByLegacyID(ctx context.Context, legacyID string, exec ...core.DBExecutor) (Student, error)
}

type FamilyRepository interface {
	CreateFamily(ctx context.Context, fam Family, exec ...core.DBExecutor) (Family, error)
	GetFamilyByName(ctx context.Context, name string, exec ...core.DBExecutor) (Family, error)
}
