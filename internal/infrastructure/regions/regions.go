// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package regions

import "strings"

type regionKey struct {
	country string
	region  string
}

// areaCodes lists the area codes searched for a region, in search order.
var areaCodes = map[regionKey][]string{
	{"US", "CA"}: {"213", "310", "408", "415", "510", "619", "650", "714", "818", "916"},
	{"US", "NY"}: {"212", "315", "347", "516", "518", "585", "631", "646", "716", "718", "914"},
	{"US", "TX"}: {"210", "214", "281", "512", "713", "817", "832", "915", "972"},
	{"US", "FL"}: {"305", "407", "561", "727", "786", "813", "850", "904", "954"},
	{"US", "WA"}: {"206", "253", "360", "425", "509"},
	{"CA", "ON"}: {"226", "289", "343", "416", "519", "613", "647", "705", "807", "905"},
	{"CA", "BC"}: {"236", "250", "604", "672", "778"},
}

// AreaCodes returns the area codes for a region of a country.
// Lookups are case-insensitive; the result is a copy.
func AreaCodes(country, region string) ([]string, bool) {
	codes, ok := areaCodes[regionKey{strings.ToUpper(strings.TrimSpace(country)), strings.ToUpper(strings.TrimSpace(region))}]
	if !ok {
		return nil, false
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, true
}

// Regions returns the known region codes of a country
func Regions(country string) []string {
	country = strings.ToUpper(country)
	var out []string
	for k := range areaCodes {
		if k.country == country {
			out = append(out, k.region)
		}
	}
	return out
}
