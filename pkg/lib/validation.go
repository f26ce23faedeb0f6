package lib

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var goValidator = validator.New()

// ValidationErrors carries a field-level list of request validation failures.
// It maps to a client error at the API boundary, never a server error.
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}

	return strings.Join(ve.Errors, "; ")
}

// ValidateStruct validates a struct using go-playground/validator tags.
// Returns nil when validation passes.
func ValidateStruct(s any) error {
	err := goValidator.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := ValidationErrors{}
	for _, e := range ve {
		msg := fmt.Sprintf("%s: failed %q", e.Field(), e.ActualTag())
		if e.Param() != "" {
			msg = fmt.Sprintf("%s: failed %q (want %s)", e.Field(), e.ActualTag(), e.Param())
		}
		out.Errors = append(out.Errors, msg)
	}

	return out
}
