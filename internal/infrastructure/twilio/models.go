// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package twilio

// availableNumbersResponse is one page of the AvailablePhoneNumbers resource.
// Records stay untyped; their shape differs between countries.
type availableNumbersResponse struct {
	AvailablePhoneNumbers *[]map[string]any `json:"available_phone_numbers"`
	NextPageURI           *string           `json:"next_page_uri"`
}

// incomingNumberResponse is the resource created by a purchase
type incomingNumberResponse struct {
	SID         string `json:"sid"`
	PhoneNumber string `json:"phone_number"`
}

// errorResponse is the error body returned with 4xx and 5xx statuses
type errorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// AvailableNumbersPage is a decoded search page
type AvailableNumbersPage struct {
	Numbers     []map[string]any
	NextPageURI *string
}
