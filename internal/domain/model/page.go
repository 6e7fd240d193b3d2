// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// RawRecord is one number as returned by a provider, before normalization
type RawRecord = map[string]any

// PageRequest asks a provider for one page of available numbers
type PageRequest struct {
	Criteria  SearchCriteria
	PageToken *string
	PageSize  int
}

// Page is one page of provider results.
// A nil NextPageToken means the provider has no further pages.
type Page struct {
	Records       []RawRecord
	NextPageToken *string
}
