// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
)

// XMLCompositeParser reads the composite repository XML format:
//
//	<repository name='...' type='...CompositeArtifactRepository' version='1.0.0'>
//	  <children size='2'>
//	    <child location='2026-03'/>
//	    <child location='https://mirror.example.org/extras/'/>
//	  </children>
//	</repository>
type XMLCompositeParser struct{}

type xmlCompositeRepository struct {
	XMLName  xml.Name   `xml:"repository"`
	Children []xmlChild `xml:"children>child"`
}

type xmlChild struct {
	Location string `xml:"location,attr"`
}

// ParseComposite implements CompositeParser. Children with an empty
// location are skipped.
func (XMLCompositeParser) ParseComposite(r io.Reader, location *url.URL) (*Composite, error) {
	var document xmlCompositeRepository
	if err := xml.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("decoding composite repository: %w", err)
	}

	composite := &Composite{Base: directory(location)}
	for _, child := range document.Children {
		if child.Location == "" {
			continue
		}
		composite.Children = append(composite.Children, child.Location)
	}
	return composite, nil
}
