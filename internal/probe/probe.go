// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package probe invokes the operating system's path discovery utility
// and captures its raw textual output. The utility is treated as an
// opaque collaborator: this package selects the platform-appropriate
// command, runs it to completion and reports its stdout or its
// diagnostic output, nothing more.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/traceatlas/traceatlas/internal/logger"
)

var _ Runner = (*execRunner)(nil)

// Runner is able to run a path discovery probe against a destination.
//
//go:generate go tool moq -out probe_moq.go . Runner
type Runner interface {
	// Run invokes the probe against the given destination and blocks until
	// it terminates. It returns the probe's standard output on success. If
	// the probe cannot be started or exits non-zero, it returns an
	// [*InvocationError] carrying the probe's diagnostic output.
	Run(ctx context.Context, destination string) (string, error)
}

// Config is the configuration for the probe runner.
type Config struct {
	// Command overrides the platform-selected probe command. The
	// destination is appended as the final argument. Mainly useful
	// for testing and for exotic trace utilities.
	Command []string `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`
}

type execRunner struct {
	config Config
}

// NewRunner creates a new probe runner for the current platform.
func NewRunner(cfg Config) Runner {
	return &execRunner{config: cfg}
}

// commandFor returns the probe command line for the given platform.
func commandFor(goos, destination string) []string {
	if goos == "windows" {
		return []string{"tracert", destination}
	}
	return []string{"traceroute", "-n", destination}
}

// Run invokes the probe and waits for it to terminate. The probe is not
// time-bounded here; it relies on the utility's own termination behavior.
// Cancelling the context kills the child process.
func (r *execRunner) Run(ctx context.Context, destination string) (string, error) {
	log := logger.FromContext(ctx).With("destination", destination)

	argv := commandFor(runtime.GOOS, destination)
	if len(r.config.Command) > 0 {
		argv = append(slices.Clone(r.config.Command), destination)
	}
	log.DebugContext(ctx, "Invoking path probe", "command", strings.Join(argv, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 // the command is operator controlled
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run waits for the child, so the process is reaped on every path.
	if err := cmd.Run(); err != nil {
		return "", &InvocationError{
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        err,
		}
	}

	return stdout.String(), nil
}
