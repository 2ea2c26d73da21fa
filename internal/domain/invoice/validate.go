package invoice

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var draftValidator = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps struct fields to the messages shown next to the
// corresponding form inputs
var fieldMessages = map[string]struct {
	field   Field
	message string
}{
	"Date":            {FieldDate, "Date is required"},
	"CustomerName":    {FieldCustomerName, "Customer name is required"},
	"SalespersonName": {FieldSalespersonName, "Salesperson name is required"},
	"Notes":           {FieldNotes, "Notes are required"},
	"Items":           {FieldItems, "At least one item is required"},
}

// Validate is a pure derived computation over the current draft value.
// It returns a field -> message mapping that is empty if and only if the
// draft is submittable: all required scalar fields present, date in
// calendar form, notes at least 10 characters, at least one line item.
func Validate(d Draft) map[Field]string {
	result := make(map[Field]string)

	err := draftValidator.Struct(d)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result[FieldItems] = "Draft could not be validated"
		return result
	}

	for _, fe := range verrs {
		entry, ok := fieldMessages[fe.StructField()]
		if !ok {
			continue
		}
		message := entry.message
		switch {
		case fe.StructField() == "Date" && fe.Tag() == "datetime":
			message = "Date must be a calendar date (YYYY-MM-DD)"
		case fe.StructField() == "Notes" && fe.Tag() == "min":
			message = "Notes must be at least 10 characters"
		}
		// First error per field wins, matching form display behavior
		if _, exists := result[entry.field]; !exists {
			result[entry.field] = message
		}
	}
	return result
}

// IsSubmittable reports whether the draft passes all validation rules
func IsSubmittable(d Draft) bool {
	return len(Validate(d)) == 0
}
