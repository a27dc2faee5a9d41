// Package engine turns a flat list of ledger transactions into period
// aggregates, savings-rule evaluations, goal progress and expense
// distributions.
//
// Every function is pure: it reads only its arguments, allocates its result
// and never retains the input. Malformed amounts count as zero and unknown
// labels are classified by sign, so no input makes it fail.
package engine

import (
	"budget/internal/core"
)

// DefaultMinimumRate is the mandatory share of income that must be saved.
const DefaultMinimumRate = 0.50

// Engine carries the category taxonomy used for classification. It holds no
// other state and is safe to copy and share.
type Engine struct {
	taxonomy core.Taxonomy
}

// New returns an engine that classifies with the given taxonomy.
func New(taxonomy core.Taxonomy) Engine {
	return Engine{taxonomy: taxonomy}
}

// Default returns an engine using core.DefaultTaxonomy.
func Default() Engine {
	return New(core.DefaultTaxonomy())
}

// Taxonomy returns the taxonomy the engine classifies with.
func (e Engine) Taxonomy() core.Taxonomy {
	return e.taxonomy
}
