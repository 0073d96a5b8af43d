// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"io"
	"net/url"
)

// ArtifactsParser decodes a leaf listing (artifacts.xml). base is the
// directory of the document and is what relative download locations
// resolve against.
type ArtifactsParser interface {
	ParseArtifacts(r io.Reader, base *url.URL) ([]Artifact, error)
}

// CompositeParser decodes a composite listing (compositeArtifacts.xml
// or compositeContent.xml). location is the locator the document was
// requested under.
type CompositeParser interface {
	ParseComposite(r io.Reader, location *url.URL) (*Composite, error)
}

// Composite is a decoded composite listing.
type Composite struct {
	// Base is what child locations resolve against.
	Base *url.URL

	// Children are the child repository locations in declaration
	// order, as written in the document.
	Children []string
}
