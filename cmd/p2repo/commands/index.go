// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/jwausle/bnd/cmd/p2repo/cli"
	"github.com/jwausle/bnd/lib/p2"
	"github.com/jwausle/bnd/lib/tui"
)

type indexParams struct {
	cli.JSONOutput
	SessionFlags
}

// indexReport is the JSON form of a p2.Index.
type indexReport struct {
	Locator      string     `json:"locator"`
	Synthesized  bool       `json:"synthesized"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	Artifacts    []string   `json:"artifacts"`
	Content      []string   `json:"content"`
}

func indexCommand(out streams) *cli.Command {
	var params indexParams
	return &cli.Command{
		Name:    "index",
		Summary: "Show the document listing of a repository",
		Description: `Read a repository's p2.index and print the artifact and metadata
listings it names, in the order they are tried. A repository without a
p2.index is shown with the well-known listing names assumed in its
place.`,
		Usage: "p2repo index [flags] URL",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("index", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return errors.New("index takes exactly one repository URL")
			}
			return runIndex(out, params, args[0])
		},
	}
}

func runIndex(out streams, params indexParams, raw string) error {
	root, err := parseRoot(raw)
	if err != nil {
		return err
	}
	session, err := openSession(out, params.SessionFlags, "index")
	if err != nil {
		return err
	}
	defer session.Close()

	index, err := session.resolver.ResolveIndex(context.Background(), indexLocator(root))
	if err != nil {
		return err
	}

	report := indexReport{
		Locator:     index.Locator.String(),
		Synthesized: index.Synthesized,
		Artifacts:   locatorStrings(index.Artifacts),
		Content:     locatorStrings(index.Content),
	}
	if !index.LastModified.IsZero() {
		modified := index.LastModified.UTC()
		report.LastModified = &modified
	}
	if done, err := params.EmitJSON(out.stdout, report); done {
		return err
	}

	styles := tui.NewStyles(out.stdout, tui.DefaultTheme)
	fmt.Fprintln(out.stdout, styles.Header.Render(report.Locator))
	switch {
	case report.Synthesized:
		fmt.Fprintf(out.stdout, "  %s\n", styles.Faint.Render("no p2.index; well-known names assumed"))
	case report.LastModified != nil:
		fmt.Fprintf(out.stdout, "  %s\n", styles.Faint.Render("modified "+report.LastModified.Format(time.RFC3339)))
	}
	writeListing(out, styles, "artifacts", report.Artifacts)
	writeListing(out, styles, "content", report.Content)
	return nil
}

func writeListing(out streams, styles *tui.Styles, title string, locators []string) {
	fmt.Fprintf(out.stdout, "  %s\n", styles.Normal.Render(title+":"))
	if len(locators) == 0 {
		fmt.Fprintf(out.stdout, "    %s\n", styles.Faint.Render("(none)"))
	}
	for _, locator := range locators {
		fmt.Fprintf(out.stdout, "    %s\n", locator)
	}
}

// indexLocator returns the p2.index of root. A root that already names
// a p2.index is returned as is.
func indexLocator(root *url.URL) *url.URL {
	if strings.HasSuffix(root.Path, "/p2.index") {
		return root
	}
	return p2.Normalize(root).ResolveReference(&url.URL{Path: "p2.index"})
}

func locatorStrings(locators []*url.URL) []string {
	strs := make([]string, len(locators))
	for index, locator := range locators {
		strs[index] = locator.String()
	}
	return strs
}
