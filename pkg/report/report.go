// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders finished trace results for humans: a console
// formatter and a file writer. Both are read-only consumers of the hop
// list and share no state; a failure in one sink never affects another.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/traceatlas/traceatlas/pkg/trace"
)

// WriteText renders the hop list to w, one block per hop with the hop's
// index, IP, location triple, ISP and coordinates, in sequence order.
func WriteText(w io.Writer, hops []trace.Hop) error {
	if _, err := fmt.Fprintf(w, "\nTraceroute Results:\n==================\n"); err != nil {
		return err
	}
	for _, hop := range hops {
		if err := writeHop(w, hop, "      "); err != nil {
			return err
		}
	}
	return nil
}

// WriteFailure renders a failed trace to w. A failed trace contributes
// no further output.
func WriteFailure(w io.Writer, message string) {
	fmt.Fprintf(w, "Error: %s\n", message)
}

// WriteFile writes one block per hop to the file at path, creating or
// truncating it. An error here is fatal to this sink only.
func WriteFile(path string, hops []trace.Hop) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	for _, hop := range hops {
		if err := writeHop(f, hop, ""); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}
	return nil
}

// writeHop writes a single hop block. The indent is applied to the
// detail lines following the hop header.
func writeHop(w io.Writer, hop trace.Hop, indent string) error {
	_, err := fmt.Fprintf(w, "Hop %2d: %s\n%sLocation: %s\n%sISP: %s\n%sCoordinates: %v, %v\n\n",
		hop.Index, hop.IP,
		indent, hop.Location,
		indent, hop.Location.ISP,
		indent, hop.Location.Lat, hop.Location.Lon)
	return err
}
