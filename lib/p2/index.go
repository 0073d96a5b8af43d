// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"

	"github.com/jwausle/bnd/lib/fetch"
	"github.com/jwausle/bnd/lib/workpool"
)

const (
	indexFile = "p2.index"

	compositeArtifactsFile = "compositeArtifacts.xml"
	artifactsFile          = "artifacts.xml"
	compositeContentFile   = "compositeContent.xml"
	contentFile            = "content.xml"

	indexVersionKey   = "version"
	contentOrderKey   = "metadata.repository.factory.order"
	artifactsOrderKey = "artifact.repository.factory.order"

	// stopKey ends a factory order list; entries after it are
	// disabled.
	stopKey = "!"
)

// Index lists the documents a repository offers, in precedence order.
type Index struct {
	// Locator is the p2.index the listing came from, or would have
	// come from when Synthesized.
	Locator *url.URL

	// Artifacts are the artifact listings.
	Artifacts []*url.URL

	// Content are the metadata listings.
	Content []*url.URL

	// LastModified is the p2.index modification time, zero when
	// Synthesized.
	LastModified time.Time

	// Synthesized is true when no p2.index exists and the well-known
	// names were assumed.
	Synthesized bool
}

// ResolveIndex reads the p2.index at indexLocator, or synthesizes the
// default listing when there is none.
func (resolver *Resolver) ResolveIndex(ctx context.Context, indexLocator *url.URL) (*Index, error) {
	return resolver.resolveIndex(ctx, indexLocator).Wait(ctx)
}

func (resolver *Resolver) resolveIndex(ctx context.Context, indexLocator *url.URL) *workpool.Future[*Index] {
	fetched := resolver.fetcher.FetchAsync(ctx, indexLocator)
	return workpool.Go(func() (*Index, error) {
		file, err := fetched.Wait(ctx)
		switch {
		case fetch.IsNotFound(err):
			resolver.logger.Debug("no p2.index, assuming default listings", "locator", indexLocator.String())
			return resolver.defaultIndex(indexLocator), nil
		case err != nil:
			return nil, &UnreachableError{Locator: indexLocator, Err: err}
		}
		return resolver.parseIndex(file, indexLocator)
	})
}

// defaultIndex lists the well-known names beside indexLocator and
// records them as defaults.
func (resolver *Resolver) defaultIndex(indexLocator *url.URL) *Index {
	sibling := func(name string) *url.URL {
		return indexLocator.ResolveReference(&url.URL{Path: name})
	}
	index := &Index{
		Locator:     indexLocator,
		Artifacts:   []*url.URL{sibling(compositeArtifactsFile), sibling(artifactsFile)},
		Content:     []*url.URL{sibling(compositeContentFile), sibling(contentFile)},
		Synthesized: true,
	}
	resolver.defaults.addAll(index.Artifacts)
	resolver.defaults.addAll(index.Content)
	return index
}

func (resolver *Resolver) parseIndex(file *fetch.File, indexLocator *url.URL) (*Index, error) {
	loader := &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}
	parsed, err := loader.LoadFile(file.Path)
	if err != nil {
		return nil, &MalformedDocumentError{Locator: indexLocator, Err: err}
	}

	version, _ := parsed.Get(indexVersionKey)
	if number, err := strconv.Atoi(strings.TrimSpace(version)); err != nil || number != 1 {
		return nil, &IncompatibleVersionError{Root: directory(indexLocator), Version: version}
	}

	index := &Index{
		Locator:      indexLocator,
		Content:      factoryOrder(parsed.GetString(contentOrderKey, ""), indexLocator),
		Artifacts:    factoryOrder(parsed.GetString(artifactsOrderKey, ""), indexLocator),
		LastModified: file.ModTime,
	}
	index.Artifacts = canonicalize(index.Artifacts)
	index.Content = canonicalize(index.Content)
	return index, nil
}

// factoryOrder resolves the keys of a factory order list against the
// index location, stopping at the first "!".
func factoryOrder(value string, indexLocator *url.URL) []*url.URL {
	var locators []*url.URL
	for _, key := range parameterKeys(value) {
		if key == stopKey {
			break
		}
		locator, err := resolveReference(indexLocator, key)
		if err != nil {
			continue
		}
		locators = append(locators, locator)
	}
	return locators
}

// canonicalize drops the compressed name of a listing that is also
// present uncompressed: for every x.xml, the first x.xml.xz is
// removed. Lists with fewer than two entries are returned as is.
func canonicalize(locators []*url.URL) []*url.URL {
	if len(locators) < 2 {
		return locators
	}
	result := append([]*url.URL(nil), locators...)
	for _, locator := range locators {
		if !hasPathSuffix(locator, ".xml") {
			continue
		}
		compressed := locatorKey(withPathSuffix(locator, ".xz"))
		for index, candidate := range result {
			if locatorKey(candidate) == compressed {
				result = append(result[:index], result[index+1:]...)
				break
			}
		}
	}
	return result
}
