// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Capability is a single feature a phone number supports
type Capability uint8

const (
	CapabilityVoice Capability = 1 << iota
	CapabilitySMS
	CapabilityMMS
)

var capabilityNames = []struct {
	flag Capability
	name string
}{
	{CapabilityVoice, "voice"},
	{CapabilitySMS, "sms"},
	{CapabilityMMS, "mms"},
}

// Capabilities is a set of Capability flags
type Capabilities uint8

// ParseCapability maps a capability name to its flag, case-insensitively.
func ParseCapability(name string) (Capability, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range capabilityNames {
		if c.name == name {
			return c.flag, true
		}
	}
	return 0, false
}

// NewCapabilities builds a set from the given flags
func NewCapabilities(flags ...Capability) Capabilities {
	var c Capabilities
	for _, f := range flags {
		c = c.With(f)
	}
	return c
}

// With returns a copy of the set including flag
func (c Capabilities) With(flag Capability) Capabilities {
	return c | Capabilities(flag)
}

// Has reports whether flag is in the set
func (c Capabilities) Has(flag Capability) bool {
	return c&Capabilities(flag) != 0
}

// Contains reports whether every flag of other is in the set
func (c Capabilities) Contains(other Capabilities) bool {
	return c&other == other
}

// Names returns the lower-case names of the flags in a stable order
func (c Capabilities) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, n := range capabilityNames {
		if c.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (c Capabilities) String() string {
	return strings.Join(c.Names(), "|")
}

var phoneNumberPattern = regexp.MustCompile(`^\+?[0-9]{5,15}$`)

// IsPhoneNumber reports whether s looks like an E.164 number, with or without
// the leading plus
func IsPhoneNumber(s string) bool {
	return phoneNumberPattern.MatchString(s)
}

// Candidate is one discoverable phone number
type Candidate struct {
	PhoneNumber  string
	Locality     string
	Region       string
	Capabilities Capabilities
	MonthlyPrice decimal.NullDecimal
}

// Key returns the identity of the candidate
func (c Candidate) Key() string {
	return c.PhoneNumber
}

// Equal compares all fields, prices by decimal value
func (c Candidate) Equal(other Candidate) bool {
	if c.PhoneNumber != other.PhoneNumber ||
		c.Locality != other.Locality ||
		c.Region != other.Region ||
		c.Capabilities != other.Capabilities ||
		c.MonthlyPrice.Valid != other.MonthlyPrice.Valid {
		return false
	}
	if !c.MonthlyPrice.Valid {
		return true
	}
	return c.MonthlyPrice.Decimal.Equal(other.MonthlyPrice.Decimal)
}
