// Copyright © 2026 TreeCAS Authors

package core

import (
	"fmt"

	"github.com/treecas/treecas/pkg/model"
)

// FilterResult is the decision a checkout filter takes for one entry.
type FilterResult int

const (
	// FilterAllow materializes the entry
	FilterAllow FilterResult = iota

	// FilterSkip omits the entry and, for directories, its entire subtree
	FilterSkip
)

// Filter decides, per path, whether an entry is materialized.
//
// Decide is invoked synchronously by the engine, before any filesystem work
// for the entry, with the path of the entry relative to the checkout root.
// The decision is computed fresh on every visit and must not depend on side
// effects for the checkout's correctness.
type Filter interface {
	Decide(relpath string, entry *model.Entry) (FilterResult, error)
}

// FilterFunc adapts a plain function to the Filter interface.
type FilterFunc func(relpath string, entry *model.Entry) (FilterResult, error)

// Decide implements Filter
func (f FilterFunc) Decide(relpath string, entry *model.Entry) (FilterResult, error) {
	return f(relpath, entry)
}

// decide consults the configured filter, recovering from a panicking
// callback so a filter failure surfaces as an error, not a crash.
func (c *Checkout) decide(relpath string, entry *model.Entry) (res FilterResult, err error) {
	if c.filter == nil {
		return FilterAllow, nil
	}
	defer func() {
		if r := recover(); r != nil {
			res = FilterSkip
			err = fmt.Errorf("filter panicked on %q: %v", relpath, r)
		}
	}()
	return c.filter.Decide(relpath, entry)
}
