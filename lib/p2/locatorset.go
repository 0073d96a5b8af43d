// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"net/url"
	"sync"
)

// locatorSet is a concurrent set of locators keyed by their canonical
// string form.
type locatorSet struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func newLocatorSet() *locatorSet {
	return &locatorSet{members: make(map[string]struct{})}
}

// add inserts locator and reports whether it was absent. The test and
// the insert are one atomic step.
func (set *locatorSet) add(locator *url.URL) bool {
	key := locatorKey(locator)
	set.mu.Lock()
	defer set.mu.Unlock()
	if _, present := set.members[key]; present {
		return false
	}
	set.members[key] = struct{}{}
	return true
}

func (set *locatorSet) addAll(locators []*url.URL) {
	for _, locator := range locators {
		set.add(locator)
	}
}

func (set *locatorSet) contains(locator *url.URL) bool {
	key := locatorKey(locator)
	set.mu.Lock()
	defer set.mu.Unlock()
	_, present := set.members[key]
	return present
}

func (set *locatorSet) len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.members)
}
