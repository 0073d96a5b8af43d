// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
	"github.com/jwausle/bnd/lib/config"
	"github.com/jwausle/bnd/lib/snapshot"
	"github.com/jwausle/bnd/lib/version"
	"github.com/jwausle/bnd/lib/workpool"
)

type resolveParams struct {
	cli.JSONOutput
	SessionFlags
	Save        string `flag:"save" desc:"write the resolution to a snapshot FILE"`
	Compression string `flag:"compression" desc:"snapshot compression: none, lz4 or zstd (default from config)"`
}

// target is one root to resolve, with the name it was configured under.
type target struct {
	name    string
	locator *url.URL
}

func resolveCommand(out streams) *cli.Command {
	var params resolveParams
	return &cli.Command{
		Name:    "resolve",
		Summary: "List the artifacts of one or more repositories",
		Description: `Resolve each repository root independently and list every bundle
and feature it offers.

Roots are taken from the arguments or, when none are given, from the
repositories of the config file. A branch of a repository that cannot
be read is reported and skipped; its siblings still resolve. The exit
status is 1 when any root failed outright or any branch failed.`,
		Usage: "p2repo resolve [flags] [URL...]",
		Examples: []cli.Example{
			{
				Description: "Resolve a release train",
				Command:     "p2repo resolve https://download.eclipse.org/releases/2026-03/",
			},
			{
				Description: "Resolve the configured repositories from the cache and keep a snapshot",
				Command:     "p2repo resolve --offline --save resolution.p2snap",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("resolve", &params)
		},
		Run: func(args []string) error {
			return runResolve(out, params, args)
		},
	}
}

func runResolve(out streams, params resolveParams, args []string) error {
	session, err := openSession(out, params.SessionFlags, "resolve")
	if err != nil {
		return err
	}
	defer session.Close()

	targets, err := resolveTargets(args, session.config)
	if err != nil {
		return err
	}

	compression := params.Compression
	if compression == "" {
		compression = session.config.Snapshot.Compression
	}
	tag, err := snapshot.ParseCompressionTag(compression)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	futures := make([]*workpool.Future[snapshot.Root], len(targets))
	for index, entry := range targets {
		futures[index] = workpool.Go(func() (snapshot.Root, error) {
			result, err := session.resolver.Resolve(ctx, entry.locator)
			if err != nil {
				session.logger.Error("repository resolution failed",
					"root", entry.locator.String(),
					"error", err,
				)
				root := snapshot.FromError(entry.locator, err)
				root.Name = entry.name
				return root, nil
			}
			root := snapshot.FromResult(result)
			root.Name = entry.name
			return root, nil
		})
	}
	roots, err := workpool.All(futures).Wait(ctx)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	resolution := &snapshot.Snapshot{
		CreatedAt: time.Now().UTC(),
		Tool:      version.UserAgent(),
		Roots:     roots,
	}
	if params.Save != "" {
		if err := snapshot.WriteFile(params.Save, resolution, tag); err != nil {
			return err
		}
		session.logger.Info("snapshot written", "path", params.Save, "compression", tag.String())
	}

	if done, err := params.EmitJSON(out.stdout, resolution); done {
		if err != nil {
			return err
		}
	} else {
		writeReport(out.stdout, resolution)
	}

	if errorCount(resolution) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// resolveTargets returns the roots named on the command line, or the
// configured repositories when there are none.
func resolveTargets(args []string, cfg *config.Config) ([]target, error) {
	var targets []target
	if len(args) > 0 {
		for _, arg := range args {
			locator, err := parseRoot(arg)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target{locator: locator})
		}
		return targets, nil
	}

	for _, repository := range cfg.Repositories {
		locator, err := url.Parse(repository.URL)
		if err != nil {
			return nil, fmt.Errorf("repository %s: %w", repository.Name, err)
		}
		targets = append(targets, target{name: repository.Name, locator: locator})
	}
	if len(targets) == 0 {
		return nil, errors.New("no repositories to resolve: pass URLs or list repositories in the config file")
	}
	return targets, nil
}

func errorCount(resolution *snapshot.Snapshot) int {
	count := 0
	for _, root := range resolution.Roots {
		count += root.Errors()
	}
	return count
}
