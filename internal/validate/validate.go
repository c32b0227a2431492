package validate

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for request-body structs.
type Validator struct {
	cli *validator.Validate
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New() *Validator {
	return &Validator{
		cli: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Struct validates s and returns one FieldError per violated rule.
func (v *Validator) Struct(s any) []FieldError {
	err := v.cli.Struct(s)
	if err == nil {
		return nil
	}

	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field:   fe.StructField(),
			Message: fe.Error(),
		})
	}
	return out
}
