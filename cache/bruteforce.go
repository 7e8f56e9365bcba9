package cache

import (
	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/grammar"
	"github.com/ava12/rawparse/value"
)

// bruteNode is one link in a position's per-non-terminal entry list.
type bruteNode struct {
	ntID  int
	entry Entry
	next  *bruteNode
}

// BruteForce is the reference Strategy: one entry per (position,
// non-terminal) actually visited, held for the lifetime of the parse
// with no eviction. Entries at a given position are a short linked
// list rather than a map, since in practice only a handful of
// non-terminals are ever tried at any one offset.
type BruteForce struct {
	heads []*bruteNode
}

// NewBruteForce returns a BruteForce strategy sized for an input of
// inputLen bytes (positions 0..inputLen inclusive).
func NewBruteForce(inputLen int) *BruteForce {
	return &BruteForce{heads: make([]*bruteNode, inputLen+1)}
}

func (b *BruteForce) Lookup(pos cursor.Pos, nt *grammar.NonTerminal) *Entry {
	for n := b.heads[pos.Offset]; n != nil; n = n.next {
		if n.ntID == nt.ID {
			return &n.entry
		}
	}

	node := &bruteNode{ntID: nt.ID, next: b.heads[pos.Offset]}
	b.heads[pos.Offset] = node
	return &node.entry
}

// Store is a no-op: Apply already mutated the entry BruteForce.Lookup
// handed out, and that same node stays reachable for the rest of the
// parse.
func (b *BruteForce) Store(entry *Entry, pos cursor.Pos, nt *grammar.NonTerminal, outcome Outcome, val value.Value, next cursor.Pos) {
}
