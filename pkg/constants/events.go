// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// AcquisitionSubjectPrefix is the NATS subject prefix for acquisition events;
	// the outcome status is appended (numbers.acquisition.v1.acquired, ...)
	AcquisitionSubjectPrefix = "numbers.acquisition.v1."

	// ServiceName identifies this service to brokers and providers
	ServiceName = "number-inventory-service"
)
