// Package validation holds the pure field rules applied by the signup wizard.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/wefitness/signup/pkg/models"
)

// MinNameLength is the shortest accepted name, counted in runes after trimming.
const MinNameLength = 3

// Context carries the state a validator may depend on besides the field value.
type Context struct {
	Country models.Country
}

// Validator reports whether value is acceptable for its field.
type Validator func(value string, ctx Context) bool

// Validators maps each validated field to its rule. Fields without an entry
// never block the wizard.
var Validators = map[models.Field]Validator{
	models.FieldName:  func(v string, _ Context) bool { return ValidName(v) },
	models.FieldPhone: func(v string, ctx Context) bool { return ValidPhone(v, ctx.Country) },
}

// Validate runs the rule registered for f. Unvalidated fields report true.
func Validate(f models.Field, value string, ctx Context) bool {
	v, ok := Validators[f]
	if !ok {
		return true
	}
	return v(value, ctx)
}

// ValidName requires at least MinNameLength characters.
func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}
