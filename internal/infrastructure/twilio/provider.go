// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package twilio

import (
	"context"
	"log/slog"
	"time"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/metrics"
)

// NumberProvider implements the port.NumberProvider interface using the provider REST API
type NumberProvider struct {
	client *Client
}

// SearchPage fetches one page of available numbers
func (p *NumberProvider) SearchPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	slog.DebugContext(ctx, "searching available numbers",
		"country", req.Criteria.Country,
		"type", req.Criteria.Type,
		"area_code", req.Criteria.AreaCode,
		"has_page_token", req.PageToken != nil,
	)

	start := time.Now()
	page, err := p.client.AvailableNumbers(ctx, req.Criteria, req.PageSize, req.PageToken)
	metrics.ProviderRequest("search", start, err)
	if err != nil {
		return nil, err
	}

	records := make([]model.RawRecord, len(page.Numbers))
	for i, n := range page.Numbers {
		records[i] = n
	}

	return &model.Page{
		Records:       records,
		NextPageToken: page.NextPageURI,
	}, nil
}

// Acquire purchases one number
func (p *NumberProvider) Acquire(ctx context.Context, phoneNumber string) (string, error) {
	start := time.Now()
	sid, err := p.client.PurchaseNumber(ctx, phoneNumber)
	metrics.ProviderRequest("purchase", start, err)
	return sid, err
}

// IsReady checks if the provider API is reachable
func (p *NumberProvider) IsReady(ctx context.Context) error {
	return p.client.IsReady(ctx)
}

// NewNumberProvider creates a new provider backed by the REST API
func NewNumberProvider(config Config) port.NumberProvider {
	return &NumberProvider{
		client: NewClient(config),
	}
}
