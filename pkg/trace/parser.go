// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"regexp"
	"strings"
)

var (
	// ipv4Pattern matches the first IPv4-shaped token on a line,
	// four dot-separated groups of 1-3 digits.
	ipv4Pattern = regexp.MustCompile(`(?:\d{1,3}\.){3}\d{1,3}`)
	// noResponsePattern matches lines that are pure "no response"
	// markers: three or more wildcard characters, whitespace allowed
	// between them.
	noResponsePattern = regexp.MustCompile(`\*(?:\s*\*){2,}`)
)

// ParseHops extracts the ordered hop sequence from raw probe output.
//
// Lines are processed one by one: blank lines, trace banner lines and
// "no response" marker lines are discarded; every remaining line that
// contains an IPv4-shaped token yields exactly one hop. Probe-reported
// gaps (unresolved intermediate hops) therefore compress the sequence;
// the emitted position is the acceptance order, not the probe's own
// hop number.
//
// If no line is accepted the result is an empty sequence, not an error;
// downstream treats this as "no path information".
func ParseHops(raw string) []RawHop {
	hops := []RawHop{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Banner heuristic: both `traceroute to ...` and windows'
		// `Tracing route to ...` / `Trace complete.` carry the marker.
		if strings.Contains(strings.ToLower(line), "trace") {
			continue
		}
		if noResponsePattern.MatchString(line) {
			continue
		}

		ip := ipv4Pattern.FindString(line)
		if ip == "" {
			continue
		}
		hops = append(hops, RawHop{IP: ip, Line: line})
	}
	return hops
}
