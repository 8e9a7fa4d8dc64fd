package dto

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

var validate = validator.New()

// Validate checks the struct tags of a request. Failures are validation
// errors listing the offending fields.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return apperr.Validation("invalid request: %v", err)
	}
	fields := make([]string, 0, len(validateErrs))
	for _, fe := range validateErrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	sort.Strings(fields)
	return apperr.WithHint(
		apperr.Validation("invalid request: %s", strings.Join(fields, ", ")),
		"Request validation failed",
	)
}
