// Package legacy turns the MS-Access XML extracts of the historical system
// into domain entities. It is pure: parsing and mapping never touch the
// database; callers supply validation sets queried from already-imported rows.
package legacy

import "github.com/volatiletech/null/v8"

// SchoolRecord is one row of the legacy "School" extract, as exported.
// Numeric fields are coerced by the parser against the XSD-declared types;
// everything else stays a raw string for the mapper to interpret.
type SchoolRecord struct {
	SchoolID          string
	ShortSchool       null.String
	SchoolDescription null.String
	Truck             null.Int
	Price             null.Float64
	Formula           null.Float64
	Comments          null.String
}

// ClassGroupRecord is one row of the legacy "Class Group" extract.
type ClassGroupRecord struct {
	Code        string
	Description null.String
	Import      bool
	SchoolID    null.Int
	DayID       null.String
	Sequence    null.String
	StartTime   null.String
	EndTime     null.String
	DayTruck    null.Int
	Comments    null.String
}

// ActivityRecord is one row of the legacy "Activity" extract.
// Icon is base64, possibly wrapped in an OLE object container.
type ActivityRecord struct {
	ActivityID  string
	Description null.String
	Icon        null.String
	Comments    null.String
}

// ChildRecord is one row of the legacy "Children" extract. All fields arrive
// as free-form strings; dates, booleans and amounts are parsed by the mapper.
type ChildRecord struct {
	Reference  string
	FirstName  null.String
	LastName   null.String
	Gender     null.String
	School     null.String // school name, denormalized
	ClassGroup null.String // class group code, denormalized
	FamilyCode null.String

	AccountName  null.String
	AccountPhone null.String
	AccountEmail null.String
	MotherName   null.String
	MotherPhone  null.String
	MotherEmail  null.String
	FatherName   null.String
	FatherPhone  null.String
	FatherEmail  null.String

	Address1 null.String
	Address2 null.String
	City     null.String

	DateOfBirth      null.String
	EntryDate        null.String
	LeaveDate        null.String
	RegistrationDate null.String
	FirstContactDate null.String
	IntakeDate       null.String
	WaitingListDate  null.String
	DepositDate      null.String
	ContractStart    null.String
	ContractEnd      null.String
	MedicalCheckDate null.String
	VaccinationDate  null.String
	PhotoConsentDate null.String
	LastInvoiceDate  null.String
	LastPaymentDate  null.String

	Charge       null.String
	Invoiced     null.String
	PhotoAllowed null.String
	Allergies    null.String
	Notes        null.String
}
