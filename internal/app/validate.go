package app

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Usernames must be identifier slugs: unicode letters, digits,
// hyphens and underscores.
var slugRE = regexp.MustCompile(`^[-_\p{L}\p{N}]+$`)

// SlugRule is a validator.v10 rule shared between the access
// evaluator and the HTTP request binding ("slug" tag).
func SlugRule(fl validator.FieldLevel) bool {
	return slugRE.MatchString(fl.Field().String())
}

// NewValidator returns a validator with the custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", SlugRule)
	return v
}
