// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

const (
	classifierBundle  = "osgi.bundle"
	classifierFeature = "org.eclipse.update.feature"

	formatPacked = "packed"
)

// XMLArtifactsParser reads the simple artifact repository XML format.
//
// Download locations come from the repository's mapping rules: the
// first rule whose filter matches an artifact's classifier, id,
// version and format supplies the output template, in which
// ${repoUrl}, ${id}, ${version} and ${classifier} are substituted.
// Only bundles and features are returned. Pack200 variants
// (format=packed) and artifacts no rule maps are skipped.
type XMLArtifactsParser struct{}

type xmlArtifactRepository struct {
	XMLName   xml.Name      `xml:"repository"`
	Rules     []xmlRule     `xml:"mappings>rule"`
	Artifacts []xmlArtifact `xml:"artifacts>artifact"`
}

type xmlRule struct {
	Filter string `xml:"filter,attr"`
	Output string `xml:"output,attr"`
}

type xmlArtifact struct {
	Classifier string        `xml:"classifier,attr"`
	ID         string        `xml:"id,attr"`
	Version    string        `xml:"version,attr"`
	Properties []xmlProperty `xml:"properties>property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type mappingRule struct {
	filter filter
	output string
}

// ParseArtifacts implements ArtifactsParser.
func (XMLArtifactsParser) ParseArtifacts(r io.Reader, base *url.URL) ([]Artifact, error) {
	var document xmlArtifactRepository
	if err := xml.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("decoding artifact repository: %w", err)
	}

	rules := make([]mappingRule, 0, len(document.Rules))
	for _, rule := range document.Rules {
		compiled, err := compileFilter(rule.Filter)
		if err != nil {
			return nil, fmt.Errorf("mapping rule: %w", err)
		}
		rules = append(rules, mappingRule{filter: compiled, output: rule.Output})
	}

	repositoryURL := strings.TrimSuffix(base.String(), "/")
	var artifacts []Artifact
	for _, element := range document.Artifacts {
		var artifactType ArtifactType
		switch element.Classifier {
		case classifierBundle:
			artifactType = Bundle
		case classifierFeature:
			artifactType = Feature
		default:
			continue
		}

		properties := make(map[string]string, len(element.Properties))
		for _, property := range element.Properties {
			properties[property.Name] = property.Value
		}
		format := properties["format"]
		if format == formatPacked {
			continue
		}

		attributes := map[string]string{
			"classifier": element.Classifier,
			"id":         element.ID,
			"version":    element.Version,
		}
		if format != "" {
			attributes["format"] = format
		}

		output, mapped := mapArtifact(rules, attributes)
		if !mapped {
			continue
		}
		output = strings.NewReplacer(
			"${repoUrl}", repositoryURL,
			"${id}", element.ID,
			"${version}", element.Version,
			"${classifier}", element.Classifier,
		).Replace(output)
		download, err := resolveReference(base, output)
		if err != nil {
			return nil, fmt.Errorf("artifact %s %s: %w", element.ID, element.Version, err)
		}

		artifact := Artifact{
			Type:       artifactType,
			ID:         element.ID,
			Version:    element.Version,
			Classifier: element.Classifier,
			Format:     format,
			URI:        download.String(),
			MD5:        properties["download.md5"],
			SHA256:     properties["download.checksum.sha-256"],
			Size:       artifactSize(properties),
		}
		if len(properties) > 0 {
			artifact.Properties = properties
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func mapArtifact(rules []mappingRule, attributes map[string]string) (string, bool) {
	for _, rule := range rules {
		if rule.filter.match(attributes) {
			return rule.output, true
		}
	}
	return "", false
}

func artifactSize(properties map[string]string) int64 {
	for _, name := range []string{"download.size", "artifact.size"} {
		if value, ok := properties[name]; ok {
			if size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
				return size
			}
		}
	}
	return 0
}
