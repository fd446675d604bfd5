// Package validation wraps go-playground/validator with English messages and
// the custom tags used by project and config structs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var customValidators = map[string]validator.Func{
	"project_name": isProjectName,
	"secret_key":   isSecretKey,
	"feature":      isFeature,
}

var customTranslations = map[string]string{
	"project_name": "{0} must start with a letter and contain only letters, digits, '-' or '_': {1}",
	"secret_key":   "{0} must be at least 16 characters without whitespace, quotes, '#' or '$'",
	"feature":      "{0} is not a known feature: {1}",
	"oneof":        "{0} must be one of [{2}]: {1}",
	"http_url":     "{0} must be a valid HTTP URL: {1}",
}

// FieldError is one failed field with a readable message.
type FieldError struct {
	Field  string
	Detail string
}

func (e FieldError) Error() string {
	return e.Detail
}

// Errors collects every failed field of one struct.
type Errors []FieldError

func (ve Errors) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for _, e := range ve {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Validator wraps a validator instance and a translator.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English translations and the custom tags
// registered. Field names come from the "cli" tag when present.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("cli"); name != "" {
			return name
		}
		return fld.Name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}

	for name, fn := range customValidators {
		if err := validate.RegisterValidation(name, fn); err != nil {
			return nil, fmt.Errorf("registering %s: %w", name, err)
		}
	}
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("registering default translations: %w", err)
	}
	for tag, message := range customTranslations {
		if err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field(), fmt.Sprintf("%v", fe.Value()), fe.Param())
				return t
			},
		); err != nil {
			return nil, fmt.Errorf("registering translation for %s: %w", tag, err)
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s. Failures come back as Errors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:  fe.Field(),
			Detail: fe.Translate(v.trans),
		})
	}
	return out
}

// Var validates a single value against tag, e.g. "project_name".
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:  field,
			Detail: strings.Replace(fe.Translate(v.trans), fe.Field(), field, 1),
		})
	}
	return out
}
