// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	messages   []published
	publishErr error
	flushErr   error
	drained    bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.messages = append(f.messages, published{subject: subject, data: data})
	return nil
}

func (f *fakeConn) FlushTimeout(time.Duration) error { return f.flushErr }

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestPublisher_PublishAcquisition(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name            string
		event           model.AcquisitionEvent
		publishErr      error
		expectedSubject string
		expectedErr     func(error) bool
	}{
		{
			name: "acquired outcome",
			event: model.AcquisitionEvent{
				BatchID:     "batch-1",
				PhoneNumber: "+15551234567",
				Status:      model.AcquisitionStatusAcquired,
				ExternalID:  "PN123",
				OccurredAt:  occurred,
			},
			expectedSubject: "numbers.acquisition.v1.acquired",
		},
		{
			name: "failed outcome",
			event: model.AcquisitionEvent{
				BatchID:     "batch-1",
				PhoneNumber: "+15551234500",
				Status:      model.AcquisitionStatusFailed,
				Reason:      "number no longer available",
				OccurredAt:  occurred,
			},
			expectedSubject: "numbers.acquisition.v1.failed",
		},
		{
			name:        "missing phone number",
			event:       model.AcquisitionEvent{Status: model.AcquisitionStatusAcquired},
			expectedErr: func(err error) bool { var v errors.Validation; return stderrors.As(err, &v) },
		},
		{
			name: "broker unavailable",
			event: model.AcquisitionEvent{
				PhoneNumber: "+15551234567",
				Status:      model.AcquisitionStatusAcquired,
			},
			publishErr:  stderrors.New("nats: connection closed"),
			expectedErr: func(err error) bool { var v errors.ServiceUnavailable; return stderrors.As(err, &v) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeConn{publishErr: tt.publishErr}
			p := newPublisher(fc, time.Second)

			err := p.PublishAcquisition(context.Background(), tt.event)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, tt.expectedErr(err), "unexpected error type: %T", err)
				assert.Empty(t, fc.messages)
				return
			}

			require.NoError(t, err)
			require.Len(t, fc.messages, 1)
			assert.Equal(t, tt.expectedSubject, fc.messages[0].subject)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(fc.messages[0].data, &decoded))
			assert.Equal(t, tt.event.PhoneNumber, decoded["phone_number"])
			assert.Equal(t, string(tt.event.Status), decoded["status"])
			assert.Equal(t, "2026-03-01T11:00:00Z", decoded["occurred_at"])
			if tt.event.ExternalID == "" {
				assert.NotContains(t, decoded, "external_id")
			}
		})
	}
}

func TestPublisher_Close(t *testing.T) {
	fc := &fakeConn{flushErr: stderrors.New("timeout")}
	p := newPublisher(fc, 0)

	assert.NoError(t, p.Close())
	assert.True(t, fc.drained)
	assert.Equal(t, 2*time.Second, p.timeout)

	assert.NoError(t, (&Publisher{}).Close())
}
