// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func onlyUSLocal(country string, numberType NumberType) bool {
	return country == "US" && numberType == NumberTypeLocal
}

func TestSearchCriteriaValidate(t *testing.T) {
	valid := SearchCriteria{Country: "US", Type: NumberTypeLocal}

	tests := []struct {
		name    string
		modify  func(*SearchCriteria)
		wantErr bool
	}{
		{"valid", func(c *SearchCriteria) {}, false},
		{"valid pattern", func(c *SearchCriteria) { c.Pattern = "555*" }, false},
		{"empty country", func(c *SearchCriteria) { c.Country = "" }, true},
		{"lower case country", func(c *SearchCriteria) { c.Country = "us" }, true},
		{"unknown type", func(c *SearchCriteria) { c.Type = "premium" }, true},
		{"unsupported combination", func(c *SearchCriteria) { c.Type = NumberTypeMobile }, true},
		{"letters in pattern", func(c *SearchCriteria) { c.Pattern = "CALL" }, true},
		{"bad area code", func(c *SearchCriteria) { c.AreaCode = "4a5" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.modify(&c)
			err := c.Validate(onlyUSLocal)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.IsType(t, errors.Validation{}, err)
		})
	}
}

func TestSearchCriteriaWithAreaCode(t *testing.T) {
	c := SearchCriteria{Country: "US", Type: NumberTypeLocal, Locality: "CA"}
	scoped := c.WithAreaCode("415")

	assert.Equal(t, "415", scoped.AreaCode)
	assert.Empty(t, c.AreaCode)
	assert.Equal(t, "CA", scoped.Locality)
}

func TestSearchCriteriaNormalized(t *testing.T) {
	c := SearchCriteria{Country: " us ", Pattern: " 555 ", Locality: " Austin "}.Normalized()
	assert.Equal(t, "US", c.Country)
	assert.Equal(t, "555", c.Pattern)
	assert.Equal(t, "Austin", c.Locality)
}

func TestParseNumberType(t *testing.T) {
	for in, want := range map[string]NumberType{"local": NumberTypeLocal, "Mobile": NumberTypeMobile, "toll-free": NumberTypeTollFree} {
		got, ok := ParseNumberType(in)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ParseNumberType("shortcode")
	assert.False(t, ok)
}
