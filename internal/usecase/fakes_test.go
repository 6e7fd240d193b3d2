// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProvider answers SearchPage with searchFn and records every request.
type fakeProvider struct {
	mu           sync.Mutex
	searchFn     func(call int, req model.PageRequest) (*model.Page, error)
	acquireFn    func(phoneNumber string) (string, error)
	requests     []model.PageRequest
	acquireCalls map[string]int
}

func (f *fakeProvider) SearchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	f.mu.Lock()
	call := len(f.requests)
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.searchFn(call, req)
}

func (f *fakeProvider) Acquire(ctx context.Context, phoneNumber string) (string, error) {
	f.mu.Lock()
	if f.acquireCalls == nil {
		f.acquireCalls = make(map[string]int)
	}
	f.acquireCalls[phoneNumber]++
	f.mu.Unlock()
	return f.acquireFn(phoneNumber)
}

func (f *fakeProvider) IsReady(ctx context.Context) error {
	return nil
}

func (f *fakeProvider) areaCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := make([]string, len(f.requests))
	for i, r := range f.requests {
		codes[i] = r.Criteria.AreaCode
	}
	return codes
}

// recordingSleeper returns immediately and keeps the requested delays.
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

type countingPacer struct {
	calls int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.calls++
	return ctx.Err()
}

type progressCall struct {
	Total   int
	Batches int
}

type progressRecorder struct {
	calls []progressCall
}

func (p *progressRecorder) Notify(total, batches int) {
	p.calls = append(p.calls, progressCall{Total: total, Batches: batches})
}

func record(phone string) model.RawRecord {
	return model.RawRecord{
		"phone_number": phone,
		"locality":     "San Francisco",
		"region":       "CA",
		"capabilities": map[string]any{"voice": true, "SMS": true, "MMS": false},
	}
}

// syntheticRecords returns n records numbered from start.
func syntheticRecords(start, n int) []model.RawRecord {
	out := make([]model.RawRecord, n)
	for i := range out {
		out[i] = record(fmt.Sprintf("+1555%07d", start+i))
	}
	return out
}

func token(s string) *string {
	return &s
}

func usLocal() model.SearchCriteria {
	return model.SearchCriteria{
		Country:      "US",
		Type:         model.NumberTypeLocal,
		Capabilities: model.NewCapabilities(model.CapabilityVoice),
	}
}
