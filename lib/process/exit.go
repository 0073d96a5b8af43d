// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status.
// Commands that already printed their report return one of these so no
// redundant "error:" line is written.
type exitCoder interface {
	ExitCode() int
}

// ExitCode reports the status main should exit with for err, writing
// "error: err" to stderr when err carries no status of its own.
func ExitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

// Exit terminates the process with the status ExitCode derives from err.
func Exit(err error) {
	os.Exit(ExitCode(os.Stderr, err))
}
