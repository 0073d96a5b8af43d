// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
	"github.com/jwausle/bnd/lib/codec"
	"github.com/jwausle/bnd/lib/snapshot"
)

type showParams struct {
	cli.JSONOutput
	Diagnostic bool `flag:"diag" desc:"print the raw CBOR payload in diagnostic notation"`
}

func showCommand(out streams) *cli.Command {
	var params showParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print a saved resolution snapshot",
		Description: `Print a snapshot written by "p2repo resolve --save" without touching
the network. The exit status is 1 when the saved resolution had errors.`,
		Usage: "p2repo show [flags] FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return errors.New("show takes exactly one snapshot file")
			}
			return runShow(out, params, args[0])
		},
	}
}

func runShow(out streams, params showParams, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if params.Diagnostic {
		payload, tag, err := snapshot.ReadPayload(file)
		if err != nil {
			return err
		}
		notation, err := codec.Diagnose(payload)
		if err != nil {
			return fmt.Errorf("diagnosing %s: %w", path, err)
		}
		fmt.Fprintf(out.stdout, "# compression: %s\n%s\n", tag, notation)
		return nil
	}

	resolution, err := snapshot.Read(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if done, err := params.EmitJSON(out.stdout, resolution); done {
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out.stdout, "snapshot of %s by %s\n\n", resolution.CreatedAt.Format("2006-01-02 15:04:05 MST"), resolution.Tool)
		writeReport(out.stdout, resolution)
	}

	if errorCount(resolution) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
