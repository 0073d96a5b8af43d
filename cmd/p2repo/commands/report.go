// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwausle/bnd/lib/snapshot"
	"github.com/jwausle/bnd/lib/tui"
)

// writeReport prints resolution as a styled listing: one block per
// root with its artifacts, its non-default failures and a summary line.
func writeReport(w io.Writer, resolution *snapshot.Snapshot) {
	styles := tui.NewStyles(w, tui.DefaultTheme)

	totalArtifacts, totalErrors := 0, 0
	for index, root := range resolution.Roots {
		if index > 0 {
			fmt.Fprintln(w)
		}
		if root.Name != "" {
			fmt.Fprintf(w, "%s %s\n", styles.Header.Render(root.Name), styles.Faint.Render(root.URL))
		} else {
			fmt.Fprintln(w, styles.Header.Render(root.URL))
		}

		if root.Fatal != "" {
			fmt.Fprintf(w, "  %s %s\n", styles.Error.Render("failed:"), root.Fatal)
			totalErrors++
			continue
		}

		idWidth, versionWidth := 0, 0
		for _, artifact := range root.Artifacts {
			idWidth = max(idWidth, len(artifact.ID))
			versionWidth = max(versionWidth, len(artifact.Version))
		}
		for _, artifact := range root.Artifacts {
			// Padding is applied before styling so escape sequences
			// do not count toward the column width.
			kind := fmt.Sprintf("%-7s", artifact.Type)
			fmt.Fprintf(w, "  %s  %-*s  %-*s  %s\n",
				styles.Artifact(string(artifact.Type)).Render(kind),
				idWidth, artifact.ID,
				versionWidth, artifact.Version,
				styles.Faint.Render(artifact.URI),
			)
		}
		for _, failure := range root.Failures {
			if failure.Default {
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", styles.Warning.Render("skipped:"), failure.Error)
		}

		errorTotal := root.Errors()
		fmt.Fprintf(w, "  %s\n", summaryStyle(styles, errorTotal).Render(summary(len(root.Artifacts), errorTotal)))
		totalArtifacts += len(root.Artifacts)
		totalErrors += errorTotal
	}

	if len(resolution.Roots) > 1 {
		fmt.Fprintf(w, "\n%s\n", summaryStyle(styles, totalErrors).Render("total: "+summary(totalArtifacts, totalErrors)))
	}
}

func summary(artifacts, errors int) string {
	return fmt.Sprintf("%s, %s", plural(artifacts, "artifact"), plural(errors, "error"))
}

func plural(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func summaryStyle(styles *tui.Styles, errors int) lipgloss.Style {
	if errors > 0 {
		return styles.Warning
	}
	return styles.Success
}
