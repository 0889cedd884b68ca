// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name        string
		goos        string
		destination string
		want        []string
	}{
		{
			name:        "Windows uses tracert",
			goos:        "windows",
			destination: "example.com",
			want:        []string{"tracert", "example.com"},
		},
		{
			name:        "Linux uses numeric traceroute",
			goos:        "linux",
			destination: "example.com",
			want:        []string{"traceroute", "-n", "example.com"},
		},
		{
			name:        "Darwin uses numeric traceroute",
			goos:        "darwin",
			destination: "8.8.8.8",
			want:        []string{"traceroute", "-n", "8.8.8.8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commandFor(tt.goos, tt.destination)
			if !cmp.Equal(got, tt.want) {
				t.Errorf("commandFor() mismatch:\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestExecRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell utilities")
	}

	tests := []struct {
		name           string
		command        []string
		wantOut        string
		wantErr        bool
		wantDiagnostic string
	}{
		{
			name:    "Successful invocation returns stdout",
			command: []string{"echo", "1  192.168.1.1  1.123 ms"},
			wantOut: "1  192.168.1.1  1.123 ms example.com\n",
		},
		{
			name:           "Non-zero exit surfaces stderr verbatim",
			command:        []string{"sh", "-c", "echo 'Name or service not known' >&2; exit 1"},
			wantErr:        true,
			wantDiagnostic: "Name or service not known",
		},
		{
			name:    "Missing binary fails to start",
			command: []string{"definitely-not-a-real-probe-binary"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(Config{Command: tt.command})
			out, err := r.Run(context.Background(), "example.com")

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOut, out)
				return
			}

			require.Error(t, err)
			assert.Empty(t, out, "no output is produced on a failed invocation")

			var invErr *InvocationError
			require.True(t, errors.As(err, &invErr), "error should be an InvocationError")
			if tt.wantDiagnostic != "" {
				assert.Equal(t, tt.wantDiagnostic, invErr.Error())
			}
		})
	}
}

func TestInvocationError_FallsBackToWrappedError(t *testing.T) {
	wrapped := errors.New("exec: executable file not found in $PATH")
	err := &InvocationError{Err: wrapped}

	assert.Equal(t, wrapped.Error(), err.Error())
	assert.ErrorIs(t, err, wrapped)
}
