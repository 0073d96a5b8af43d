// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/jwausle/bnd/lib/fetch"
	"github.com/jwausle/bnd/lib/workpool"
)

// Config holds the parameters for creating a Resolver.
type Config struct {
	// Fetcher retrieves documents. Required.
	Fetcher fetch.Fetcher

	// Pool bounds concurrent open and parse work. If nil, a pool with
	// the default worker count is created.
	Pool *workpool.Pool

	// ArtifactsParser decodes leaf listings. Defaults to
	// XMLArtifactsParser.
	ArtifactsParser ArtifactsParser

	// CompositeParser decodes composite listings. Defaults to
	// XMLCompositeParser.
	CompositeParser CompositeParser

	// Logger receives branch failures. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Resolver enumerates repository artifacts. It is safe for concurrent
// use; Resolve calls share nothing but the set of known default
// locators.
type Resolver struct {
	fetcher   fetch.Fetcher
	pool      *workpool.Pool
	artifacts ArtifactsParser
	composite CompositeParser
	logger    *slog.Logger

	// defaults holds every locator synthesized because a repository
	// has no p2.index. It only grows, and only affects how failures
	// are logged and flagged.
	defaults *locatorSet
}

// NewResolver creates a Resolver.
func NewResolver(config Config) (*Resolver, error) {
	if config.Fetcher == nil {
		return nil, fmt.Errorf("p2: Fetcher is required")
	}

	pool := config.Pool
	if pool == nil {
		pool = workpool.New(0)
	}

	artifactsParser := config.ArtifactsParser
	if artifactsParser == nil {
		artifactsParser = XMLArtifactsParser{}
	}

	compositeParser := config.CompositeParser
	if compositeParser == nil {
		compositeParser = XMLCompositeParser{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		fetcher:   config.Fetcher,
		pool:      pool,
		artifacts: artifactsParser,
		composite: compositeParser,
		logger:    logger,
		defaults:  newLocatorSet(),
	}, nil
}

// IsDefault reports whether locator was synthesized for a repository
// without a p2.index.
func (resolver *Resolver) IsDefault(locator *url.URL) bool {
	return resolver.defaults.contains(locator)
}

// Resolve returns every artifact reachable from root.
//
// root may name a repository directory, its p2.index, or an artifact
// listing (artifacts.xml, artifacts.xml.xz, compositeArtifacts.xml)
// directly. Branch failures below the root are recovered and reported
// in Result.Failures; see the package documentation for the failures
// that are returned as errors.
func (resolver *Resolver) Resolve(ctx context.Context, root *url.URL) (*Result, error) {
	if !root.IsAbs() {
		return nil, fmt.Errorf("p2: root locator %q is not absolute", root)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if classify(root) == kindDirectory {
		root = Normalize(root)
	}

	run := &resolution{
		resolver: resolver,
		ctx:      ctx,
		visited:  newLocatorSet(),
	}
	artifacts, err := run.resolve(root, nil).Wait(ctx)
	if err != nil {
		if ctx.Err() == nil {
			resolver.logger.Error("repository resolution failed", "root", root.String(), "error", err)
		}
		return nil, err
	}

	failures := run.collectFailures()
	resolver.logger.Info("repository resolved",
		"root", root.String(),
		"artifacts", len(artifacts),
		"visited", run.visited.len(),
		"failures", len(failures),
	)
	return &Result{Root: root, Artifacts: artifacts, Failures: failures}, nil
}

type documentKind int

const (
	kindDirectory documentKind = iota
	kindComposite
	kindLeaf
	kindIndex
)

func classify(locator *url.URL) documentKind {
	switch {
	case hasPathSuffix(locator, "/"+compositeArtifactsFile):
		return kindComposite
	case hasPathSuffix(locator, "/"+artifactsFile+".xz"), hasPathSuffix(locator, "/"+artifactsFile):
		return kindLeaf
	case hasPathSuffix(locator, "/"+indexFile):
		return kindIndex
	}
	return kindDirectory
}

// resolution is the state of one Resolve call.
type resolution struct {
	resolver *Resolver
	ctx      context.Context
	visited  *locatorSet

	mu       sync.Mutex
	failures []Failure
}

// resolve walks the graph below locator. ancestry is the chain of
// locators that led here, for cycle reports.
func (run *resolution) resolve(locator *url.URL, ancestry []*url.URL) *workpool.Future[[]Artifact] {
	path := append(slices.Clip(ancestry), locator)
	if !run.visited.add(locator) {
		return workpool.Failed[[]Artifact](&CycleError{Path: path})
	}

	switch classify(locator) {
	case kindComposite:
		return run.composite(locator, path)
	case kindLeaf:
		return run.leaf(locator)
	case kindIndex:
		return run.indexed(locator, path)
	}

	indexLocator := Normalize(locator).ResolveReference(&url.URL{Path: indexFile})
	run.resolver.defaults.add(indexLocator)
	return run.indexed(indexLocator, path)
}

func (run *resolution) leaf(locator *url.URL) *workpool.Future[[]Artifact] {
	resolver := run.resolver
	return workpool.Submit(run.ctx, resolver.pool, func() ([]Artifact, error) {
		stream, err := resolver.open(run.ctx, locator)
		if err != nil {
			return nil, err
		}
		defer stream.Close()

		artifacts, err := resolver.artifacts.ParseArtifacts(stream, directory(locator))
		if err != nil {
			return nil, malformed(locator, err)
		}
		return artifacts, nil
	})
}

func (run *resolution) composite(locator *url.URL, path []*url.URL) *workpool.Future[[]Artifact] {
	resolver := run.resolver
	parsed := workpool.Submit(run.ctx, resolver.pool, func() (*Composite, error) {
		stream, err := resolver.open(run.ctx, locator)
		if err != nil {
			return nil, err
		}
		defer stream.Close()

		composite, err := resolver.composite.ParseComposite(stream, locator)
		if err != nil {
			return nil, malformed(locator, err)
		}
		return composite, nil
	})

	return workpool.FlatMap(parsed, func(composite *Composite) *workpool.Future[[]Artifact] {
		children := make([]*url.URL, 0, len(composite.Children))
		for _, location := range composite.Children {
			child, err := resolveReference(composite.Base, location)
			if err != nil {
				run.recordFailure(locator, &MalformedDocumentError{Locator: locator, Err: err})
				continue
			}
			children = append(children, child)
		}
		return workpool.Then(run.branches(children, path), concatenate)
	})
}

// indexed resolves every artifact listing of a p2.index. When the
// index was synthesized and not one listing could be read, the
// repository itself is unreachable.
func (run *resolution) indexed(indexLocator *url.URL, path []*url.URL) *workpool.Future[[]Artifact] {
	pending := run.resolver.resolveIndex(run.ctx, indexLocator)
	return workpool.FlatMap(pending, func(index *Index) *workpool.Future[[]Artifact] {
		return workpool.Then(run.branches(index.Artifacts, path), func(outcomes []branchOutcome) ([]Artifact, error) {
			if index.Synthesized && !anySucceeded(outcomes) {
				return nil, &UnreachableError{Locator: directory(indexLocator)}
			}
			return concatenate(outcomes)
		})
	})
}

// branchOutcome is the recovered result of one child branch.
type branchOutcome struct {
	artifacts []Artifact
	failed    bool
}

// branches resolves every locator concurrently. Each failure is
// recorded and recovered so siblings are unaffected. Outcomes keep
// the order of locators.
func (run *resolution) branches(locators []*url.URL, path []*url.URL) *workpool.Future[[]branchOutcome] {
	futures := make([]*workpool.Future[branchOutcome], len(locators))
	for index, locator := range locators {
		succeeded := workpool.Then(run.resolve(locator, path), func(artifacts []Artifact) (branchOutcome, error) {
			return branchOutcome{artifacts: artifacts}, nil
		})
		futures[index] = workpool.Recover(succeeded, func(err error) branchOutcome {
			run.recordFailure(locator, err)
			return branchOutcome{failed: true}
		})
	}
	return workpool.All(futures)
}

func (run *resolution) recordFailure(locator *url.URL, err error) {
	isDefault := run.resolver.defaults.contains(locator)
	if isDefault {
		run.resolver.logger.Info("optional repository listing unavailable",
			"locator", locator.String(),
			"error", err,
		)
	} else {
		run.resolver.logger.Error("repository branch failed",
			"locator", locator.String(),
			"error", err,
		)
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	run.failures = append(run.failures, Failure{Locator: locator, Err: err, Default: isDefault})
}

// collectFailures returns the recorded failures ordered by locator.
func (run *resolution) collectFailures() []Failure {
	run.mu.Lock()
	defer run.mu.Unlock()
	failures := slices.Clone(run.failures)
	slices.SortStableFunc(failures, func(a, b Failure) int {
		return cmp.Compare(a.Locator.String(), b.Locator.String())
	})
	return failures
}

func concatenate(outcomes []branchOutcome) ([]Artifact, error) {
	var artifacts []Artifact
	for _, outcome := range outcomes {
		artifacts = append(artifacts, outcome.artifacts...)
	}
	return artifacts, nil
}

func anySucceeded(outcomes []branchOutcome) bool {
	for _, outcome := range outcomes {
		if !outcome.failed {
			return true
		}
	}
	return false
}
