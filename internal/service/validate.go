package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dokan-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator that reports fields by their json
// names, so validation errors line up with what the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// invalidInput converts a validator failure into the field-level error
// surfaced to clients. Only the first failing field is reported.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Validation(fe.Field(), fmt.Sprintf("fails the %q rule", fe.Tag()))
	}
	return apperr.Validation("", "malformed request")
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ClampPage normalizes pagination arguments coming off the query
// string. Handlers use it too, so the pagination block in responses
// echoes the values actually applied.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
