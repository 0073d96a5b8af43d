// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// p2repo enumerates the artifacts of Eclipse p2 repositories.
package main

import (
	"os"

	"github.com/jwausle/bnd/cmd/p2repo/commands"
	"github.com/jwausle/bnd/lib/process"
)

func main() {
	process.Exit(commands.Root().Execute(os.Args[1:]))
}
