// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e *codedError) Error() string { return "coded" }
func (e *codedError) ExitCode() int { return e.code }

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{name: "nil", err: nil, wantCode: 0},
		{name: "plain", err: errors.New("boom"), wantCode: 1, wantStderr: "error: boom\n"},
		{name: "coded", err: &codedError{code: 3}, wantCode: 3},
		{name: "wrapped coded", err: fmt.Errorf("resolve: %w", &codedError{code: 2}), wantCode: 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if code := ExitCode(&stderr, test.err); code != test.wantCode {
				t.Errorf("code = %d, want %d", code, test.wantCode)
			}
			if stderr.String() != test.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), test.wantStderr)
			}
		})
	}
}
