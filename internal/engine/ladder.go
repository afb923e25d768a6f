package engine

import "github.com/google/btree"

// PriceLadder is a best-first structure over distinct prices. One
// instance is used per side; the comparator fixed at construction decides
// which end is "best" — min for asks, max for bids — and never changes
// (spec.md §4.1). Backed by google/btree's generic BTreeG, which
// generalizes the teacher's two hand-written PriceLevelItem /
// PriceLevelItemAscending btree.Item wrappers into one parameterized type.
type PriceLadder struct {
	tree *btree.BTreeG[float64]
}

func newPriceLadder(less func(a, b float64) bool) *PriceLadder {
	return &PriceLadder{tree: btree.NewG(32, less)}
}

func newAskLadder() *PriceLadder {
	return newPriceLadder(func(a, b float64) bool { return a < b })
}

func newBidLadder() *PriceLadder {
	return newPriceLadder(func(a, b float64) bool { return a > b })
}

// insert adds a price. Caller guarantees p is not already present.
func (l *PriceLadder) insert(p float64) {
	l.tree.ReplaceOrInsert(p)
}

// peekBest returns the best price without removing it.
func (l *PriceLadder) peekBest() (float64, bool) {
	return l.tree.Min()
}

// remove drops a price known to be present.
func (l *PriceLadder) remove(p float64) {
	l.tree.Delete(p)
}

func (l *PriceLadder) size() int {
	return l.tree.Len()
}

// ascendBest walks prices best-first, stopping early if fn returns false.
func (l *PriceLadder) ascendBest(fn func(price float64) bool) {
	l.tree.Ascend(func(p float64) bool { return fn(p) })
}
