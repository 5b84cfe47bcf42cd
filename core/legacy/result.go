package legacy

import "github.com/volatiletech/null/v8"

// SkipField tags the warning emitted when a record is intentionally excluded
// (e.g. its legacy Import flag is off).
const SkipField = "_skip"

// MappingWarning records a non-fatal transformation: truncation, default
// substitution, an unresolved foreign key demoted to null, an unparsable
// optional value. Warnings never reject a record.
type MappingWarning struct {
	Field         string      `json:"field"`
	Message       string      `json:"message"`
	OriginalValue null.String `json:"original_value,omitempty"`
	MappedValue   null.String `json:"mapped_value,omitempty"`
}

// MappingError records why a record was rejected outright.
type MappingError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MappingResult is the uniform carrier every mapper returns for one record.
// Invariant: Success() implies Data != nil implies len(Errors) == 0;
// warnings never affect success.
type MappingResult[T any] struct {
	Data     *T
	Warnings []MappingWarning
	Errors   []MappingError
}

// Ok builds a successful result.
func Ok[T any](data T, warnings ...MappingWarning) MappingResult[T] {
	return MappingResult[T]{Data: &data, Warnings: warnings}
}

// Fail builds a rejected result, keeping any warnings accumulated before the
// fatal error was found.
func Fail[T any](warnings []MappingWarning, errs ...MappingError) MappingResult[T] {
	return MappingResult[T]{Warnings: warnings, Errors: errs}
}

// Skip builds a result for a record that is intentionally excluded:
// no data, no errors, one warning tagged SkipField.
func Skip[T any](message string) MappingResult[T] {
	return MappingResult[T]{Warnings: []MappingWarning{{Field: SkipField, Message: message}}}
}

func (r MappingResult[T]) Success() bool { return r.Data != nil }

func (r MappingResult[T]) IsSkipped() bool {
	if r.Data != nil || len(r.Errors) > 0 {
		return false
	}
	for _, w := range r.Warnings {
		if w.Field == SkipField {
			return true
		}
	}
	return false
}

// BatchResult aggregates the per-record results of mapping a whole extract.
// A batch is successful only when no record was rejected; warned records are
// still included in Data.
type BatchResult[T any] struct {
	Data     []T
	Warnings []MappingWarning
	Errors   []MappingError
}

func (r BatchResult[T]) Success() bool { return len(r.Errors) == 0 }

// mapMany folds mapOne over records. One record's rejection never aborts the
// batch; warnings and errors are concatenated in record order.
func mapMany[R, T any](records []R, mapOne func(R) MappingResult[T]) BatchResult[T] {
	res := BatchResult[T]{Data: make([]T, 0, len(records))}
	for _, rec := range records {
		mr := mapOne(rec)
		if mr.Data != nil {
			res.Data = append(res.Data, *mr.Data)
		}
		res.Warnings = append(res.Warnings, mr.Warnings...)
		res.Errors = append(res.Errors, mr.Errors...)
	}
	return res
}

func warning(field, message string) MappingWarning {
	return MappingWarning{Field: field, Message: message}
}

func demotion(field, message, original string) MappingWarning {
	return MappingWarning{Field: field, Message: message, OriginalValue: null.StringFrom(original)}
}
