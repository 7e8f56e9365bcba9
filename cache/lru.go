package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/grammar"
	"github.com/ava12/rawparse/value"
)

// lruKey identifies a cache entry by byte offset and non-terminal ID.
// Non-terminal identity is by pointer everywhere else in this module;
// ID is used here only because it is a comparable map key.
type lruKey struct {
	offset int
	ntID   int
}

// LRU is a bounded Strategy backed by github.com/hashicorp/golang-lru/v2:
// once size distinct (position, non-terminal) pairs are live, the
// least recently touched one is evicted to make room for a new one.
//
// Evicting an entry never produces a wrong parse: a later Lookup for
// the evicted key simply misses and re-parses from Unknown, same as
// on a grammar's very first visit to that position. The one guarantee
// this costs is indirect-left-recursion termination: that relies on
// the Fail-marked entry placed before descending into a non-terminal
// staying visible for the whole of that descent, and a sufficiently
// small size can evict it mid-descent. Grammars with indirect left
// recursion that must terminate should either size LRU generously
// (at least the deepest concurrently active call chain) or use
// BruteForce instead.
type LRU struct {
	cache *lru.Cache[lruKey, *Entry]
}

// NewLRU returns an LRU strategy holding at most size entries. It
// panics if size <= 0, matching the underlying library's contract.
func NewLRU(size int) *LRU {
	c, err := lru.New[lruKey, *Entry](size)
	if err != nil {
		panic(err)
	}
	return &LRU{cache: c}
}

func (l *LRU) Lookup(pos cursor.Pos, nt *grammar.NonTerminal) *Entry {
	key := lruKey{offset: pos.Offset, ntID: nt.ID}
	if entry, ok := l.cache.Get(key); ok {
		return entry
	}

	entry := &Entry{}
	l.cache.Add(key, entry)
	return entry
}

// Store refreshes key's recency: Apply already mutated entry in
// place, so the cached pointer's content is current either way, but
// touching the key here keeps a just-resolved entry from being the
// next one evicted.
func (l *LRU) Store(entry *Entry, pos cursor.Pos, nt *grammar.NonTerminal, outcome Outcome, val value.Value, next cursor.Pos) {
	l.cache.Get(lruKey{offset: pos.Offset, ntID: nt.ID})
}
