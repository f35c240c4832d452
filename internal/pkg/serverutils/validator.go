package serverutils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, field := range names {
		parts = append(parts, fmt.Sprintf("%s is %s", field, e.Fields[field]))
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		var rule string
		switch {
		case fe.Tag() == "required":
			rule = "required"
		case fe.Param() != "":
			rule = fmt.Sprintf("invalid (%s=%s)", fe.Tag(), fe.Param())
		default:
			rule = fmt.Sprintf("invalid (%s)", fe.Tag())
		}
		fields[strings.ToLower(fe.Field())] = rule
	}
	return &ValidationError{Fields: fields}
}
