// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

type priceKey struct {
	country    string
	numberType model.NumberType
}

// monthlyPrices lists the list price per month for every searchable
// country and number type. A combination missing here is unsupported.
var monthlyPrices = map[priceKey]decimal.Decimal{
	{"US", model.NumberTypeLocal}:    decimal.RequireFromString("1.15"),
	{"US", model.NumberTypeTollFree}: decimal.RequireFromString("2.15"),
	{"CA", model.NumberTypeLocal}:    decimal.RequireFromString("1.15"),
	{"CA", model.NumberTypeTollFree}: decimal.RequireFromString("2.15"),
	{"GB", model.NumberTypeLocal}:    decimal.RequireFromString("1.15"),
	{"GB", model.NumberTypeMobile}:   decimal.RequireFromString("1.15"),
	{"GB", model.NumberTypeTollFree}: decimal.RequireFromString("2.00"),
	{"AU", model.NumberTypeLocal}:    decimal.RequireFromString("3.00"),
	{"AU", model.NumberTypeMobile}:   decimal.RequireFromString("6.50"),
	{"AU", model.NumberTypeTollFree}: decimal.RequireFromString("16.00"),
	{"DE", model.NumberTypeLocal}:    decimal.RequireFromString("1.00"),
	{"DE", model.NumberTypeMobile}:   decimal.RequireFromString("15.00"),
	{"NL", model.NumberTypeMobile}:   decimal.RequireFromString("10.00"),
	{"SE", model.NumberTypeMobile}:   decimal.RequireFromString("3.00"),
}

// IsSupported reports whether numbers of the given type can be searched in country.
func IsSupported(country string, numberType model.NumberType) bool {
	_, ok := monthlyPrices[priceKey{country, numberType}]
	return ok
}

// ListPrice returns the table price for a country and number type
func ListPrice(country string, numberType model.NumberType) (decimal.Decimal, bool) {
	p, ok := monthlyPrices[priceKey{country, numberType}]
	return p, ok
}
