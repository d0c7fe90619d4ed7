package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

// Validator checks request structs for missing required fields, reporting
// fields by their JSON names.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Required validates the `validate:"required"` tags on req. When any field is
// missing it returns a validation error naming every missing field.
func (val *Validator) Required(req any) error {
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) == 0 {
		return domain.Validation("Invalid request parameters")
	}
	return domain.Validation("Missing required parameters: " + strings.Join(missing, ", "))
}
