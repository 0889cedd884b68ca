// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidProviderURL is returned when the geolocation provider url is invalid
	ErrInvalidProviderURL = errors.New("invalid geolocation provider url")
	// ErrInvalidMinInterval is returned when the geolocation request interval is invalid
	ErrInvalidMinInterval = errors.New("invalid geolocation request interval")
	// ErrInvalidRetryCount is returned when the geolocation retry count is invalid
	ErrInvalidRetryCount = errors.New("invalid geolocation retry count")
	// ErrNoDestinations is returned when a targets file contains no destinations
	ErrNoDestinations = errors.New("targets file contains no destinations")
)
