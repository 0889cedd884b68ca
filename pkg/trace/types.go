// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"fmt"
	"time"

	"github.com/traceatlas/traceatlas/pkg/geo"
)

// Hop is one intermediate or final network node observed along the path
// to a destination. Hops are owned by the pipeline run that created them
// and are never mutated after construction, only appended in order.
type Hop struct {
	// Index is the 1-based position of the hop in the result sequence.
	// It is assigned by acceptance order, not taken from the probe's own
	// hop-number column.
	Index int `json:"hop" yaml:"hop"`
	// IP is the hop's address in dotted-quad textual form.
	IP string `json:"ip" yaml:"ip"`
	// ObservedAt is the wall-clock time the hop was enriched.
	ObservedAt time.Time `json:"observedAt" yaml:"observedAt"`
	// Location is the hop's approximate geographic origin. A sentinel
	// location marks a hop whose origin could not be determined.
	Location geo.Location `json:"location" yaml:"location"`
}

func (h Hop) String() string {
	return fmt.Sprintf("%-2d  %-15s  %s  %s", h.Index, h.IP, h.Location, h.Location.ISP)
}

// RawHop is a hop as extracted from the probe's textual output,
// before geolocation enrichment.
type RawHop struct {
	// IP is the first IPv4-shaped token found on the line.
	IP string
	// Line is the trimmed probe output line the hop was extracted from.
	Line string
}
