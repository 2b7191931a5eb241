package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "voice-whisper/internal/app/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and returns a configuration error naming every bad field.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.KindConfiguration, err, "invalid settings")
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fieldError := range validationErrs {
		field := strings.ToLower(strings.TrimPrefix(fieldError.Namespace(), "Settings."))

		switch fieldError.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "gte", "lte":
			problems = append(problems, field+" must be between 0.0 and 1.0")
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		case "url":
			problems = append(problems, field+" must be a valid URL")
		case "gt":
			problems = append(problems, field+" must be positive")
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	sort.Strings(problems)

	return apperrors.Newf(apperrors.KindConfiguration, "invalid settings: %s", strings.Join(problems, "; "))
}
