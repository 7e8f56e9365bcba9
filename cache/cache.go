// Package cache defines the memoization cache contract consulted by
// the engine at every non-terminal boundary, plus a reference
// brute-force strategy and a bounded LRU-backed alternative.
package cache

import (
	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/grammar"
	"github.com/ava12/rawparse/value"
)

// Outcome is the tri-state result of parsing a non-terminal at a
// given position.
type Outcome int

const (
	Unknown Outcome = iota
	Fail
	Success
)

func (o Outcome) String() string {
	switch o {
	case Fail:
		return "Fail"
	case Success:
		return "Success"
	default:
		return "Unknown"
	}
}

// Entry is a memoization cache entry, keyed by (position, non-terminal).
type Entry struct {
	Outcome Outcome
	Value   value.Value // meaningful only when Outcome == Success
	Next    cursor.Pos  // meaningful only when Outcome == Success
}

// Strategy is the pluggable memoization cache contract. An
// implementation may allocate storage for the whole input up front
// (as the reference BruteForce strategy does) or bound itself and
// evict under pressure (as LRU does); the engine does not care which.
type Strategy interface {
	// Lookup returns the entry for (pos, nt), allocating and recording a
	// fresh Unknown entry if none exists yet. Lookup never returns nil.
	Lookup(pos cursor.Pos, nt *grammar.NonTerminal) *Entry

	// Store records that entry (previously returned by Lookup for the
	// same (pos, nt)) now has outcome, and, if outcome is Success, value
	// and next. Implementations that only need the in-place mutation the
	// engine already performs on entry may treat Store as a no-op; ones
	// that need additional bookkeeping (eviction order, re-keying, ...)
	// do it here.
	Store(entry *Entry, pos cursor.Pos, nt *grammar.NonTerminal, outcome Outcome, value value.Value, next cursor.Pos)
}

// Apply is the single place the engine writes a cache outcome: it
// mutates entry directly (covering the "store is effectively a no-op,
// mutate in place" shape from §9) and also calls strategy.Store
// (covering the "store performs bookkeeping" shape), so either
// implementation style works without the engine needing to know which
// one it is talking to.
func Apply(strategy Strategy, entry *Entry, pos cursor.Pos, nt *grammar.NonTerminal, outcome Outcome, val value.Value, next cursor.Pos) {
	entry.Outcome = outcome
	if outcome == Success {
		entry.Value = val
		entry.Next = next
	}
	strategy.Store(entry, pos, nt, outcome, val, next)
}
