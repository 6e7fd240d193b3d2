// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"encoding/json"
	"strings"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	phoneNumberKeys = []string{"phone_number", "phoneNumber", "number"}
	priceKeys       = []string{"monthly_price", "price", "monthly_rate"}
	localityKeys    = []string{"locality", "rate_center"}
	regionKeys      = []string{"region", "state"}
)

// Normalize maps a raw provider record to a Candidate.
// It returns false when the record carries no usable phone number.
// The result depends only on its inputs.
func Normalize(raw model.RawRecord, criteria model.SearchCriteria) (model.Candidate, bool) {
	phone := firstString(raw, phoneNumberKeys)
	if phone == "" {
		return model.Candidate{}, false
	}

	candidate := model.Candidate{
		PhoneNumber:  phone,
		Locality:     firstString(raw, localityKeys),
		Region:       firstString(raw, regionKeys),
		Capabilities: parseCapabilities(raw["capabilities"]),
	}

	if price, ok := providerPrice(raw); ok {
		candidate.MonthlyPrice = decimal.NewNullDecimal(price)
	} else if price, ok := ListPrice(criteria.Country, criteria.Type); ok {
		candidate.MonthlyPrice = decimal.NewNullDecimal(price)
	}

	return candidate, true
}

func firstString(raw model.RawRecord, keys []string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// parseCapabilities accepts a list of names or a map of name to boolean.
func parseCapabilities(v any) model.Capabilities {
	var caps model.Capabilities
	switch c := v.(type) {
	case []any:
		for _, item := range c {
			if name, ok := item.(string); ok {
				if flag, ok := model.ParseCapability(name); ok {
					caps = caps.With(flag)
				}
			}
		}
	case []string:
		for _, name := range c {
			if flag, ok := model.ParseCapability(name); ok {
				caps = caps.With(flag)
			}
		}
	case map[string]any:
		for name, enabled := range c {
			if !truthy(enabled) {
				continue
			}
			if flag, ok := model.ParseCapability(name); ok {
				caps = caps.With(flag)
			}
		}
	case map[string]bool:
		for name, enabled := range c {
			if !enabled {
				continue
			}
			if flag, ok := model.ParseCapability(name); ok {
				caps = caps.With(flag)
			}
		}
	}
	return caps
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

func providerPrice(raw model.RawRecord) (decimal.Decimal, bool) {
	for _, k := range priceKeys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		var (
			price decimal.Decimal
			err   error
		)
		switch p := v.(type) {
		case string:
			price, err = decimal.NewFromString(strings.TrimSpace(p))
		case json.Number:
			price, err = decimal.NewFromString(p.String())
		case float64:
			price = decimal.NewFromFloat(p)
		case float32:
			price = decimal.NewFromFloat32(p)
		case int:
			price = decimal.NewFromInt(int64(p))
		case int64:
			price = decimal.NewFromInt(p)
		default:
			continue
		}
		if err != nil || price.IsZero() {
			continue
		}
		return price, true
	}
	return decimal.Decimal{}, false
}
