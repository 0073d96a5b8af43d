// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the p2repo command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
	"github.com/jwausle/bnd/lib/version"
)

// streams are the outputs every command writes to. Tests substitute
// buffers.
type streams struct {
	stdout io.Writer
	stderr io.Writer
}

// Root builds the complete p2repo command tree writing to the
// process's standard streams.
func Root() *cli.Command {
	return newRoot(streams{stdout: os.Stdout, stderr: os.Stderr})
}

func newRoot(out streams) *cli.Command {
	return &cli.Command{
		Name: "p2repo",
		Description: `p2repo: enumerate the artifacts of Eclipse p2 repositories.

Walks composite repositories, p2.index files and compressed or
jarred listings, and reports every bundle and feature a repository
offers along with the branches that could not be read.`,
		HelpOutput: out.stderr,
		Subcommands: []*cli.Command{
			resolveCommand(out),
			indexCommand(out),
			showCommand(out),
			cacheCommand(out),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(out.stdout, "p2repo %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
