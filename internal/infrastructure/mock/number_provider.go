// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/numbersmith/number-inventory-service/pkg/paging"
)

const (
	inventoryPerAreaCode = 180
	pageOverlap          = 3
)

var (
	countryPrefixes = map[string]string{
		"US": "+1", "CA": "+1", "GB": "+44", "AU": "+61", "DE": "+49", "NL": "+31", "SE": "+46",
	}
	defaultAreaCodes = map[string]string{
		"US": "415", "CA": "416", "GB": "20", "AU": "2", "DE": "30", "NL": "6", "SE": "70",
	}
	// externalIDNamespace scopes the deterministic purchase identifiers
	externalIDNamespace = uuid.MustParse("6f1c2a52-3b0e-4d7e-9a55-0c1e5b7d9f10")
)

type mockCursor struct {
	Country  string `json:"country"`
	AreaCode string `json:"area_code"`
	Offset   int    `json:"offset"`
}

// MockNumberProvider serves a deterministic synthetic inventory.
// Consecutive pages overlap by a few numbers, record shapes alternate and
// numbers ending in "00" cannot be purchased.
type MockNumberProvider struct {
	mu           sync.Mutex
	secret       *[32]byte
	purchased    map[string]string
	searchErrors []error
	searchCalls  int
	isReadyError error
}

// SearchPage returns one page of the synthetic inventory
func (m *MockNumberProvider) SearchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	m.mu.Lock()
	m.searchCalls++
	if len(m.searchErrors) > 0 {
		err := m.searchErrors[0]
		m.searchErrors = m.searchErrors[1:]
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	criteria := req.Criteria
	prefix, ok := countryPrefixes[criteria.Country]
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("mock provider has no inventory for %q", criteria.Country))
	}
	areaCode := criteria.AreaCode
	if areaCode == "" {
		areaCode = defaultAreaCodes[criteria.Country]
	}

	offset := 0
	if req.PageToken != nil {
		var cursor mockCursor
		if err := paging.DecodePageToken(ctx, *req.PageToken, m.secret, &cursor); err != nil {
			return nil, err
		}
		if cursor.Country != criteria.Country || cursor.AreaCode != areaCode {
			return nil, errors.NewValidation("page token does not belong to this search")
		}
		offset = cursor.Offset
	}

	inventory := m.inventory(prefix, areaCode, criteria)

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	start := offset
	if offset > 0 {
		start = max(0, offset-pageOverlap)
	}
	end := min(len(inventory), offset+pageSize)

	page := &model.Page{Records: []model.RawRecord{}}
	if start < end {
		page.Records = inventory[start:end]
	}

	if end < len(inventory) {
		token, err := paging.EncodePageToken(mockCursor{Country: criteria.Country, AreaCode: areaCode, Offset: end}, m.secret)
		if err != nil {
			return nil, err
		}
		page.NextPageToken = &token
	}

	slog.DebugContext(ctx, "mock provider returned page",
		"area_code", areaCode,
		"offset", offset,
		"records", len(page.Records),
		"has_next", page.NextPageToken != nil,
	)

	return page, nil
}

// inventory builds the filtered synthetic numbers for one area code
func (m *MockNumberProvider) inventory(prefix, areaCode string, criteria model.SearchCriteria) []model.RawRecord {
	records := make([]model.RawRecord, 0, inventoryPerAreaCode)
	for i := 0; i < inventoryPerAreaCode; i++ {
		number := fmt.Sprintf("%s%s555%04d", prefix, areaCode, (i*37)%10000)
		if criteria.Pattern != "" && !matchesPattern(strings.TrimPrefix(number, "+"), criteria.Pattern) {
			continue
		}

		caps := model.NewCapabilities(model.CapabilityVoice, model.CapabilitySMS)
		if i%3 == 0 {
			caps = caps.With(model.CapabilityMMS)
		}
		if !caps.Contains(criteria.Capabilities) {
			continue
		}

		record := model.RawRecord{
			"locality": "Mock " + areaCode,
			"region":   criteria.Country,
		}
		// Alternate between the shapes seen from real providers.
		if i%2 == 0 {
			record["phone_number"] = number
			record["capabilities"] = map[string]any{
				"voice": caps.Has(model.CapabilityVoice),
				"SMS":   caps.Has(model.CapabilitySMS),
				"MMS":   caps.Has(model.CapabilityMMS),
			}
		} else {
			record["phoneNumber"] = number
			capList := make([]any, 0, 3)
			for _, name := range caps.Names() {
				capList = append(capList, strings.ToUpper(name))
			}
			record["capabilities"] = capList
		}
		if i%5 != 0 {
			record["monthly_price"] = "1.00"
		}
		records = append(records, record)
	}
	return records
}

// matchesPattern reports whether number contains pattern, where '*' matches any digit
func matchesPattern(number, pattern string) bool {
	for i := 0; i+len(pattern) <= len(number); i++ {
		ok := true
		for j := 0; j < len(pattern); j++ {
			if pattern[j] != '*' && pattern[j] != number[i+j] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Acquire purchases a number from the synthetic inventory
func (m *MockNumberProvider) Acquire(ctx context.Context, phoneNumber string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.HasSuffix(phoneNumber, "00") {
		return "", errors.NewValidation(fmt.Sprintf("number %s is no longer available", phoneNumber))
	}
	if _, taken := m.purchased[phoneNumber]; taken {
		return "", errors.NewValidation(fmt.Sprintf("number %s was already purchased", phoneNumber))
	}

	id := uuid.NewSHA1(externalIDNamespace, []byte(phoneNumber)).String()
	m.purchased[phoneNumber] = id

	slog.DebugContext(ctx, "mock provider purchased number",
		"phone_number", phoneNumber,
		"external_id", id,
	)
	return id, nil
}

// IsReady implements the NumberProvider interface
func (m *MockNumberProvider) IsReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isReadyError
}

// FailNextSearches queues errors returned by the next SearchPage calls
func (m *MockNumberProvider) FailNextSearches(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchErrors = append(m.searchErrors, errs...)
}

// SetIsReadyError sets the error returned by IsReady
func (m *MockNumberProvider) SetIsReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReadyError = err
}

// SearchCalls returns how many SearchPage calls were made
func (m *MockNumberProvider) SearchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

// Purchased returns the numbers bought so far and their identifiers
func (m *MockNumberProvider) Purchased() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.purchased))
	for k, v := range m.purchased {
		out[k] = v
	}
	return out
}

// NewMockNumberProvider creates a mock provider; secret encrypts page tokens
func NewMockNumberProvider(secret *[32]byte) *MockNumberProvider {
	return &MockNumberProvider{
		secret:    secret,
		purchased: make(map[string]string),
	}
}
