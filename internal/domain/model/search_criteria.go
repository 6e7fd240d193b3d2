// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// NumberType is the provider's class of phone number
type NumberType string

const (
	NumberTypeLocal    NumberType = "local"
	NumberTypeMobile   NumberType = "mobile"
	NumberTypeTollFree NumberType = "tollfree"
)

// ParseNumberType accepts the canonical names plus a few common spellings.
func ParseNumberType(s string) (NumberType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return NumberTypeLocal, true
	case "mobile":
		return NumberTypeMobile, true
	case "tollfree", "toll-free", "toll_free":
		return NumberTypeTollFree, true
	}
	return "", false
}

var (
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
	digitPattern   = regexp.MustCompile(`^[0-9*]{1,16}$`)
	areaPattern    = regexp.MustCompile(`^[0-9]{2,5}$`)
)

// SupportChecker reports whether a country and number type can be searched
type SupportChecker func(country string, numberType NumberType) bool

// SearchCriteria describes one search request.
// It is a value type: modifiers return copies.
type SearchCriteria struct {
	Country      string
	Type         NumberType
	Capabilities Capabilities
	Pattern      string
	Locality     string
	AreaCode     string
}

// WithAreaCode returns a copy of the criteria scoped to one area code
func (c SearchCriteria) WithAreaCode(code string) SearchCriteria {
	c.AreaCode = code
	return c
}

// Normalized returns a copy with canonical casing and trimmed fields
func (c SearchCriteria) Normalized() SearchCriteria {
	c.Country = strings.ToUpper(strings.TrimSpace(c.Country))
	c.Pattern = strings.TrimSpace(c.Pattern)
	c.Locality = strings.TrimSpace(c.Locality)
	c.AreaCode = strings.TrimSpace(c.AreaCode)
	return c
}

// Validate checks the criteria against the format rules and the supported
// country and type combinations.
func (c SearchCriteria) Validate(supported SupportChecker) error {
	if !countryPattern.MatchString(c.Country) {
		return errors.NewValidation(fmt.Sprintf("invalid country code %q", c.Country))
	}
	switch c.Type {
	case NumberTypeLocal, NumberTypeMobile, NumberTypeTollFree:
	default:
		return errors.NewValidation(fmt.Sprintf("unknown number type %q", c.Type))
	}
	if supported != nil && !supported(c.Country, c.Type) {
		return errors.NewValidation(fmt.Sprintf("%s numbers are not available in %s", c.Type, c.Country))
	}
	if c.Pattern != "" && !digitPattern.MatchString(c.Pattern) {
		return errors.NewValidation(fmt.Sprintf("invalid pattern %q: only digits and '*' are allowed", c.Pattern))
	}
	if c.AreaCode != "" && !areaPattern.MatchString(c.AreaCode) {
		return errors.NewValidation(fmt.Sprintf("invalid area code %q", c.AreaCode))
	}
	return nil
}
