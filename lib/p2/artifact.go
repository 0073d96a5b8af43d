// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import "net/url"

// ArtifactType distinguishes the two artifact kinds the resolver keeps.
type ArtifactType string

const (
	// Bundle is an OSGi bundle (classifier osgi.bundle).
	Bundle ArtifactType = "bundle"

	// Feature is an Eclipse feature (classifier
	// org.eclipse.update.feature).
	Feature ArtifactType = "feature"
)

// Artifact is one downloadable artifact of a leaf repository.
type Artifact struct {
	Type       ArtifactType `json:"type"`
	ID         string       `json:"id"`
	Version    string       `json:"version"`
	Classifier string       `json:"classifier"`
	Format     string       `json:"format,omitempty"`

	// URI is the download location computed from the repository's
	// mapping rules.
	URI string `json:"uri"`

	MD5    string `json:"md5,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	Size   int64  `json:"size,omitempty"`

	Properties map[string]string `json:"properties,omitempty"`
}

// Failure is a recovered branch failure.
type Failure struct {
	Locator *url.URL
	Err     error

	// Default is true when Locator is one of the well-known names
	// tried because a repository has no p2.index. Such failures are
	// expected and are not counted as errors.
	Default bool
}

// Result is the outcome of resolving one root.
type Result struct {
	Root      *url.URL
	Artifacts []Artifact
	Failures  []Failure
}

// Errors returns the number of failures that are not defaults.
func (result *Result) Errors() int {
	count := 0
	for _, failure := range result.Failures {
		if !failure.Default {
			count++
		}
	}
	return count
}
