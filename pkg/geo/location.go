// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package geo

import "fmt"

// UnknownField is the sentinel value used for every textual location
// field that could not be determined.
const UnknownField = "Unknown"

// Location is the geographic origin of an IP address. It is a plain
// value and is never mutated after construction.
type Location struct {
	Country string  `json:"country" yaml:"country"`
	City    string  `json:"city" yaml:"city"`
	Region  string  `json:"region" yaml:"region"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lon     float64 `json:"lon" yaml:"lon"`
	ISP     string  `json:"isp" yaml:"isp"`
}

// Unknown is the sentinel Location returned when a lookup fails or
// is inconclusive.
var Unknown = Location{
	Country: UnknownField,
	City:    UnknownField,
	Region:  UnknownField,
	ISP:     UnknownField,
}

// Valid reports whether the location carries usable coordinates.
// Sentinel locations are not valid and are excluded from path drawing.
func (l Location) Valid() bool {
	return l.Lat != 0 && l.Lon != 0
}

// String renders the location as a "city, region, country" triple.
func (l Location) String() string {
	return fmt.Sprintf("%s, %s, %s", l.City, l.Region, l.Country)
}
