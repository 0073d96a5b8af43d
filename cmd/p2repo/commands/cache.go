// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
)

type cacheParams struct {
	cli.JSONOutput
	SessionFlags
}

func cacheCommand(out streams) *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Inspect or clear the download cache",
		Subcommands: []*cli.Command{
			cacheStatsCommand(out),
			cacheClearCommand(out),
		},
	}
}

func cacheStatsCommand(out streams) *cli.Command {
	var params cacheParams
	return &cli.Command{
		Name:    "stats",
		Summary: "Show the number and size of cached downloads",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stats", &params)
		},
		Run: func(args []string) error {
			session, err := openSession(out, params.SessionFlags, "cache/stats")
			if err != nil {
				return err
			}
			defer session.Close()

			stats, err := session.client.Stats(context.Background())
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(out.stdout, stats); done {
				return err
			}
			fmt.Fprintf(out.stdout, "%s\n  %d entries, %s\n",
				stats.Dir, stats.Entries, humanize.IBytes(uint64(stats.Bytes)))
			return nil
		},
	}
}

func cacheClearCommand(out streams) *cli.Command {
	var params cacheParams
	return &cli.Command{
		Name:    "clear",
		Summary: "Remove every cached download",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("clear", &params)
		},
		Run: func(args []string) error {
			session, err := openSession(out, params.SessionFlags, "cache/clear")
			if err != nil {
				return err
			}
			defer session.Close()

			removed, err := session.client.Clear(context.Background())
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(out.stdout, map[string]int{"removed": removed}); done {
				return err
			}
			fmt.Fprintf(out.stdout, "removed %d cached downloads from %s\n", removed, session.config.Cache.Dir)
			return nil
		},
	}
}
