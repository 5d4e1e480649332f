package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError un fallo de validación de un campo del request.
type FieldError struct {
	FailedField string
	Tag         string
	Param       string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("campo %q no cumple la regla %q", e.FailedField, e.Tag)
}

var validate = validator.New()

// ValidateStruct valida un DTO por sus tags `validate`. Devuelve la lista de
// fallos (vacía si el struct es válido).
func ValidateStruct(data interface{}) []*FieldError {
	var errs []*FieldError
	if err := validate.Struct(data); err != nil {
		for _, ve := range err.(validator.ValidationErrors) {
			errs = append(errs, &FieldError{
				FailedField: ve.StructNamespace(),
				Tag:         ve.Tag(),
				Param:       ve.Param(),
			})
		}
	}
	return errs
}
