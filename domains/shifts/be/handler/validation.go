package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationFields flattens validator errors into the field map used by every
// 400 body, keyed by the JSON field name.
func validationFields(err error) map[string][]string {
	fields := map[string][]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = []string{"invalid payload"}
		return fields
	}

	for _, fe := range verrs {
		name := jsonFieldName(fe)
		fields[name] = append(fields[name], messageFor(fe))
	}
	return fields
}

func jsonFieldName(fe validator.FieldError) string {
	field := fe.Field()
	if field == "" {
		return "body"
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return "must be YYYY-MM-DD"
		case "15:04":
			return "must be HH:MM (24h)"
		}
		return "has an invalid format"
	case "uuid":
		return "must be a UUID"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
