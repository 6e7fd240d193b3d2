// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() *[32]byte {
	var key [32]byte
	copy(key[:], "mock-provider-test-secret-0123456")
	return &key
}

func numberOf(r model.RawRecord) string {
	if n, ok := r["phone_number"].(string); ok {
		return n
	}
	n, _ := r["phoneNumber"].(string)
	return n
}

func walk(t *testing.T, p *MockNumberProvider, criteria model.SearchCriteria, pageSize int) ([]int, map[string]int) {
	t.Helper()
	var (
		sizes []int
		seen  = map[string]int{}
		token *string
	)
	for {
		page, err := p.SearchPage(context.Background(), model.PageRequest{Criteria: criteria, PageToken: token, PageSize: pageSize})
		require.NoError(t, err)
		sizes = append(sizes, len(page.Records))
		for _, r := range page.Records {
			seen[numberOf(r)]++
		}
		if page.NextPageToken == nil {
			return sizes, seen
		}
		token = page.NextPageToken
	}
}

func TestMockNumberProviderPagesOverlap(t *testing.T) {
	p := NewMockNumberProvider(testSecret())
	criteria := model.SearchCriteria{Country: "US", Type: model.NumberTypeLocal}

	sizes, seen := walk(t, p, criteria, 50)

	assert.Equal(t, []int{50, 53, 53, 33}, sizes)
	assert.Len(t, seen, inventoryPerAreaCode)
	repeats := 0
	for _, n := range seen {
		if n > 1 {
			repeats++
		}
	}
	assert.Equal(t, 3*pageOverlap, repeats)
}

func TestMockNumberProviderFilters(t *testing.T) {
	p := NewMockNumberProvider(testSecret())

	_, mms := walk(t, p, model.SearchCriteria{
		Country:      "US",
		Type:         model.NumberTypeLocal,
		Capabilities: model.NewCapabilities(model.CapabilityMMS),
	}, 50)
	assert.Len(t, mms, inventoryPerAreaCode/3)

	_, patterned := walk(t, p, model.SearchCriteria{Country: "US", Type: model.NumberTypeLocal, AreaCode: "212", Pattern: "2125550*37"}, 50)
	assert.NotEmpty(t, patterned)
	for n := range patterned {
		assert.Contains(t, n, "+1212555")
		assert.True(t, matchesPattern(n[1:], "2125550*37"), n)
	}
}

func TestMockNumberProviderTokenChecks(t *testing.T) {
	p := NewMockNumberProvider(testSecret())
	ctx := context.Background()

	first, err := p.SearchPage(ctx, model.PageRequest{Criteria: model.SearchCriteria{Country: "US", AreaCode: "415"}, PageSize: 10})
	require.NoError(t, err)
	require.NotNil(t, first.NextPageToken)

	_, err = p.SearchPage(ctx, model.PageRequest{Criteria: model.SearchCriteria{Country: "US", AreaCode: "510"}, PageToken: first.NextPageToken})
	assert.IsType(t, errors.Validation{}, err)

	garbage := "garbage"
	_, err = p.SearchPage(ctx, model.PageRequest{Criteria: model.SearchCriteria{Country: "US", AreaCode: "415"}, PageToken: &garbage})
	assert.IsType(t, errors.Validation{}, err)

	_, err = p.SearchPage(ctx, model.PageRequest{Criteria: model.SearchCriteria{Country: "FR"}})
	assert.IsType(t, errors.Validation{}, err)
}

func TestMockNumberProviderQueuedErrors(t *testing.T) {
	p := NewMockNumberProvider(testSecret())
	p.FailNextSearches(errors.NewRateLimited("slow down", 0))
	req := model.PageRequest{Criteria: model.SearchCriteria{Country: "US"}}

	_, err := p.SearchPage(context.Background(), req)
	assert.True(t, errors.IsTransient(err))

	_, err = p.SearchPage(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, 2, p.SearchCalls())
}

func TestMockNumberProviderAcquire(t *testing.T) {
	p := NewMockNumberProvider(testSecret())
	ctx := context.Background()

	id, err := p.Acquire(ctx, "+14155550037")
	require.NoError(t, err)
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())

	_, err = p.Acquire(ctx, "+14155550037")
	assert.IsType(t, errors.Validation{}, err)

	_, err = p.Acquire(ctx, "+14155553700")
	assert.IsType(t, errors.Validation{}, err)

	other := NewMockNumberProvider(testSecret())
	sameID, err := other.Acquire(ctx, "+14155550037")
	require.NoError(t, err)
	assert.Equal(t, id, sameID)
	assert.Equal(t, map[string]string{"+14155550037": id}, p.Purchased())
}

func TestMockNumberProviderIsReadyConcurrent(t *testing.T) {
	m := NewMockNumberProvider(testSecret())
	ctx := context.Background()
	unreachable := stderrors.New("unreachable")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetIsReadyError(unreachable)
		}()
		go func() {
			defer wg.Done()
			_ = m.IsReady(ctx)
		}()
	}
	wg.Wait()

	assert.ErrorIs(t, m.IsReady(ctx), unreachable)
	m.SetIsReadyError(nil)
	assert.NoError(t, m.IsReady(ctx))
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, matchesPattern("14155550037", "555"))
	assert.True(t, matchesPattern("14155550037", "0*37"))
	assert.False(t, matchesPattern("14155550037", "999"))
	assert.False(t, matchesPattern("123", "12345"))
}
