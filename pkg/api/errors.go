// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package api

import "errors"

var (
	// ErrEmptyListenAddress is returned when the API listen address is empty
	ErrEmptyListenAddress = errors.New("listen address cannot be empty")
	// ErrAPIShutdown is returned when the API server fails to shut down cleanly
	ErrAPIShutdown = errors.New("failed to shut down API server")
)
