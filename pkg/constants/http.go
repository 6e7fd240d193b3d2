// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type contextID int

const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader = "X-REQUEST-ID"

	// PrincipalContextID is the context key holding the authenticated principal
	PrincipalContextID contextID = iota

	// RequestIDContextID is the context key holding the request ID
	RequestIDContextID
)
