// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/numbersmith/number-inventory-service/internal/config"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/auth"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/mock"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/nats"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/postgres"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/seenfile"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/twilio"
	numbers "github.com/numbersmith/number-inventory-service/internal/service"
	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/global"
)

// NumberProviderImpl injects the number provider implementation
func NumberProviderImpl(ctx context.Context, cfg *config.Config) (port.NumberProvider, error) {
	switch cfg.ProviderSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock number provider")
		global.SetPageTokenSecret(cfg.PageTokenSecret)
		return mock.NewMockNumberProvider(global.PageTokenSecret(ctx)), nil

	case "twilio":
		twilioConfig, err := twilio.NewConfig(cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioBaseURL,
			cfg.ProviderTimeout,
			cfg.ProviderMaxRetries,
			cfg.ProviderRetryDelay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider configuration: %w", err)
		}

		slog.InfoContext(ctx, "initializing twilio number provider",
			"base_url", twilioConfig.BaseURL,
			"timeout", twilioConfig.Timeout,
			"max_retries", twilioConfig.MaxRetries,
		)
		return twilio.NewNumberProvider(twilioConfig), nil

	default:
		return nil, fmt.Errorf("unsupported number provider implementation: %s", cfg.ProviderSource)
	}
}

// InventoryImpl injects the inventory repository implementation. The returned
// function releases its resources.
func InventoryImpl(ctx context.Context, cfg *config.Config) (port.InventoryRepository, func(), error) {
	switch cfg.InventorySource {
	case "mock":
		slog.InfoContext(ctx, "initializing in-memory inventory")
		return mock.NewMockInventoryRepository(), func() {}, nil

	case "postgres":
		slog.InfoContext(ctx, "initializing postgres inventory")
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewInventoryRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported inventory implementation: %s", cfg.InventorySource)
	}
}

// PublisherImpl injects the acquisition event publisher implementation
func PublisherImpl(ctx context.Context, cfg *config.Config) (port.EventPublisher, error) {
	switch cfg.PublisherSource {
	case "none":
		slog.InfoContext(ctx, "acquisition events disabled")
		return mock.NoopEventPublisher{}, nil

	case "mock":
		slog.InfoContext(ctx, "initializing recording event publisher")
		return mock.NewMockEventPublisher(), nil

	case "nats":
		slog.InfoContext(ctx, "initializing NATS event publisher")
		return nats.NewPublisher(ctx, nats.Config{
			URL:           cfg.NATSURL,
			Timeout:       cfg.NATSTimeout,
			MaxReconnect:  cfg.NATSMaxReconnect,
			ReconnectWait: cfg.NATSReconnectWait,
		})

	default:
		return nil, fmt.Errorf("unsupported event publisher implementation: %s", cfg.PublisherSource)
	}
}

// AuthServiceImpl injects the bearer token authenticator
func AuthServiceImpl(ctx context.Context, cfg *config.Config) (port.Authenticator, error) {
	switch cfg.AuthSource {
	case "mock":
		slog.WarnContext(ctx, "JWT validation is disabled, every token maps to the mock principal",
			"principal", cfg.MockPrincipal,
		)
		return mock.NewMockAuthService(cfg.MockPrincipal), nil

	case "jwt":
		slog.InfoContext(ctx, "initializing JWT authenticator", "jwks_url", cfg.JWKSURL)
		return auth.NewJWTAuth(auth.JWTAuthConfig{
			JWKSURL:  cfg.JWKSURL,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		})

	default:
		return nil, fmt.Errorf("unsupported auth implementation: %s", cfg.AuthSource)
	}
}

// SeenStoreImpl returns the seen-number file store, or nil when disabled
func SeenStoreImpl(ctx context.Context, cfg *config.Config) port.SeenStore {
	if cfg.SeenFile == "" {
		return nil
	}
	slog.InfoContext(ctx, "excluding previously seen numbers", "path", cfg.SeenFile)
	return seenfile.NewStore(cfg.SeenFile)
}

// Dependencies holds the infrastructure and services built from the configuration
type Dependencies struct {
	Provider    port.NumberProvider
	Inventory   port.InventoryRepository
	Publisher   port.EventPublisher
	Auth        port.Authenticator
	Search      *numbers.NumberSearch
	Acquisition *numbers.NumberAcquisition

	closers []func()
}

// Close releases the publisher and the inventory
func (d *Dependencies) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	slog.DebugContext(ctx, "dependencies closed")
}

// NewDependencies builds every implementation selected by cfg
func NewDependencies(ctx context.Context, cfg *config.Config) (_ *Dependencies, err error) {
	d := &Dependencies{}
	defer func() {
		if err != nil {
			d.Close(ctx)
		}
	}()

	if d.Provider, err = NumberProviderImpl(ctx, cfg); err != nil {
		return nil, err
	}

	var closeInventory func()
	if d.Inventory, closeInventory, err = InventoryImpl(ctx, cfg); err != nil {
		return nil, err
	}
	d.closers = append(d.closers, closeInventory)

	if d.Publisher, err = PublisherImpl(ctx, cfg); err != nil {
		return nil, err
	}
	publisher := d.Publisher
	d.closers = append(d.closers, func() {
		if errClose := publisher.Close(); errClose != nil {
			slog.ErrorContext(ctx, "failed to close event publisher", "error", errClose)
		}
	})

	if d.Auth, err = AuthServiceImpl(ctx, cfg); err != nil {
		return nil, err
	}

	searchOpts := []numbers.SearchOption{
		numbers.WithSearchOptions(numbers.SearchOptions{
			PageSize:     cfg.Search.PageSize,
			RequestDelay: cfg.Search.RequestDelay,
			MaxDuration:  cfg.Search.MaxDuration,
			Backoff: usecase.BackoffPolicy{
				Base:         cfg.Search.BackoffBase,
				MaxDelay:     cfg.Search.BackoffMaxDelay,
				NetworkDelay: cfg.Search.NetworkRetryDelay,
				MaxRetries:   cfg.Search.MaxRetries,
			},
		}),
	}
	if store := SeenStoreImpl(ctx, cfg); store != nil {
		searchOpts = append(searchOpts, numbers.WithSeenStore(store))
	}
	if d.Search, err = numbers.NewNumberSearch(d.Provider, searchOpts...); err != nil {
		return nil, err
	}

	d.Acquisition = numbers.NewNumberAcquisition(d.Provider, d.Inventory, d.Publisher, cfg.Search.AcquireDelay)
	return d, nil
}
