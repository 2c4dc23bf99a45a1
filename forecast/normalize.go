package forecast

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD NORMALIZER
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Rates and amounts are decimals; compare them as floats for gte/lte tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkRecord runs the struct tags of rec and reports the first violation
// against the record that caused it.
func checkRecord(family Family, id string, rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("normalizer: %s record %s: %w", family, id, err)
	}
	fe := fieldErrs[0]
	return &RecordError{
		Component:  "normalizer",
		Family:     family,
		RecordID:   id,
		Field:      fe.Field(),
		Constraint: describeTag(fe),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s %s", fe.Tag(), fe.Param())
	}
}

// NormalizeInterval turns optional start/end dates into an Interval that
// owns its own copies. Missing bounds become unbounded, which is a valid
// state and not an error; an end before the start is.
func NormalizeInterval(family Family, id string, start, end *Date) (Interval, error) {
	var iv Interval
	if start != nil && !start.IsZero() {
		s := *start
		iv.Start = &s
	}
	if end != nil && !end.IsZero() {
		e := *end
		iv.End = &e
	}
	if iv.Start != nil && iv.End != nil && iv.End.Before(*iv.Start) {
		return Interval{}, &RecordError{
			Component:  "normalizer",
			Family:     family,
			RecordID:   id,
			Field:      "end_date",
			Constraint: fmt.Sprintf("end %s precedes start %s", iv.End, iv.Start),
		}
	}
	return iv, nil
}

// recordID names a record in error messages: its position id when present,
// otherwise its 1-based row number in the table.
func recordID(ident Identity, index int) string {
	if ident.PositionID != "" {
		return ident.PositionID
	}
	return fmt.Sprintf("row %d", index+1)
}

// NormalizeSettings checks the run-wide scalars.
func NormalizeSettings(s Settings) error {
	if s.StartDate.IsZero() {
		return &RecordError{Component: "normalizer", Family: FamilySettings, RecordID: "start_date", Field: "start_date", Constraint: "is required"}
	}
	if s.Months < 1 {
		return &RecordError{Component: "normalizer", Family: FamilySettings, RecordID: "months", Field: "months", Constraint: fmt.Sprintf("must be at least 1, got %d", s.Months)}
	}
	return checkRecord(FamilySettings, "fringe", s)
}
