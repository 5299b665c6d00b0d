package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// required trims v and rejects blanks.
func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "%s is required", field)
	}
	return v, nil
}

// requiredEmail trims v and rejects blanks and malformed addresses.
func requiredEmail(field, v string) (string, error) {
	v, err := required(field, v)
	if err != nil {
		return "", err
	}
	if validate.Var(v, "email") != nil {
		return "", invalid(field, "%s must be a valid email address", field)
	}
	return v, nil
}
