package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

const minSecretKeyLength = 16

var projectNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// KnownFeatures lists the dashboard features a project can enable.
var KnownFeatures = []string{
	"energy-tracking",
	"carbon-footprint",
	"water-usage",
	"insights",
	"authentication",
	"user-management",
	"dark-mode",
	"real-time-charts",
	"teams",
	"api",
}

// IsValidProjectName reports whether name is usable as a project directory
// and package name.
func IsValidProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("project name %q is longer than 64 characters", name)
	}
	if !projectNameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, digits, '-' or '_'", name)
	}
	return nil
}

// IsValidSecretKey reports whether key can be written unquoted into an
// environment file and survive shell sourcing.
func IsValidSecretKey(key string) error {
	if len(key) < minSecretKeyLength {
		return fmt.Errorf("secret key must be at least %d characters", minSecretKeyLength)
	}
	if i := strings.IndexAny(key, " \t\r\n\"'`#$\\"); i >= 0 {
		return fmt.Errorf("secret key contains forbidden character %q", key[i])
	}
	return nil
}

func mustString(fl validator.FieldLevel) string {
	if fl.Field().Kind() != reflect.String {
		panic(fmt.Sprintf("input field %s is not a string", fl.FieldName()))
	}
	return fl.Field().String()
}

func isProjectName(fl validator.FieldLevel) bool {
	return IsValidProjectName(mustString(fl)) == nil
}

func isSecretKey(fl validator.FieldLevel) bool {
	return IsValidSecretKey(mustString(fl)) == nil
}

func isFeature(fl validator.FieldLevel) bool {
	return slices.Contains(KnownFeatures, mustString(fl))
}
