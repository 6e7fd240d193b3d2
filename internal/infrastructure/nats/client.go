// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// conn is the subset of *nats.Conn the publisher needs
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Drain() error
}

// Publisher publishes acquisition outcomes on NATS subjects
type Publisher struct {
	conn    conn
	timeout time.Duration
}

// PublishAcquisition publishes one acquisition outcome. The subject is derived from
// the outcome status so consumers can subscribe to failures only.
func (p *Publisher) PublishAcquisition(ctx context.Context, event model.AcquisitionEvent) error {
	if event.PhoneNumber == "" || event.Status == "" {
		return errors.NewValidation("acquisition event requires a phone number and a status")
	}

	event.OccurredAt = event.OccurredAt.UTC()
	data, err := json.Marshal(event)
	if err != nil {
		return errors.NewUnexpected("failed to encode acquisition event", err)
	}

	subject := constants.AcquisitionSubjectPrefix + string(event.Status)
	if errPublish := p.conn.Publish(subject, data); errPublish != nil {
		slog.ErrorContext(ctx, "NATS publish failed", "subject", subject, "error", errPublish)
		return errors.NewServiceUnavailable("failed to publish acquisition event", errPublish)
	}

	slog.DebugContext(ctx, "published acquisition event",
		"subject", subject,
		"phone_number", event.PhoneNumber,
	)
	return nil
}

// Close flushes pending messages and drains the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.FlushTimeout(p.timeout); err != nil {
		slog.Warn("NATS flush before close failed", "error", err)
	}
	return p.conn.Drain()
}

func newPublisher(c conn, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{conn: c, timeout: timeout}
}

// NewPublisher connects to NATS with the given configuration
func NewPublisher(ctx context.Context, config Config) (port.EventPublisher, error) {
	slog.InfoContext(ctx, "creating NATS publisher",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	opts := []nats.Option{
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.InfoContext(ctx, "NATS publisher created successfully",
		"connected_url", nc.ConnectedUrl(),
		"status", nc.Status(),
	)

	return newPublisher(nc, config.Timeout), nil
}
