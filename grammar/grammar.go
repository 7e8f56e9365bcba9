// Package grammar defines the non-terminal / rule / element data model
// the engine interprets, and the builder API used to construct it.
//
// A Grammar is an arena: non-terminals, rules, elements, and character
// sets all live for the lifetime of the Grammar they were built into,
// and cross-reference each other through ordinary Go pointers rather
// than indices, since (unlike a table-compiled grammar such as
// github.com/ava12/llx's) this grammar is interpreted directly by the
// engine and never serialized to a flat table.
package grammar

import (
	"github.com/ava12/rawparse/charset"
	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/value"
)

// ElementKind identifies which payload an Element carries.
type ElementKind int

const (
	NonTerminalKind ElementKind = iota
	GroupingKind
	CharacterLiteralKind
	CharacterSetKind
	EndOfInputKind
	UserTerminalKind
)

func (k ElementKind) String() string {
	switch k {
	case NonTerminalKind:
		return "NonTerminal"
	case GroupingKind:
		return "Grouping"
	case CharacterLiteralKind:
		return "CharacterLiteral"
	case CharacterSetKind:
		return "CharacterSet"
	case EndOfInputKind:
		return "EndOfInput"
	case UserTerminalKind:
		return "UserTerminal"
	default:
		return "?"
	}
}

// UserTerminalFunc scans the unconsumed tail of the input directly,
// bypassing the character-level grammar. It returns the number of
// bytes consumed (<= 0 means no match) and may populate result (a
// fresh, empty value.Value) with whatever semantic value it produced.
type UserTerminalFunc func(tail []byte, result value.Value) (consumed int)

// Hook types, one per §4.5 of the specification this package realizes.
type (
	// ConditionHook runs after an element matches; returning false
	// rejects the match and restores the cursor.
	ConditionHook func(result value.Value, arg any) bool

	// AddCharHook folds a consumed character/character-set byte into
	// the accumulator.
	AddCharHook func(prev value.Value, b byte) (acc value.Value, ok bool)

	// AddHook folds a matched non-terminal/grouping result into the
	// accumulator.
	AddHook func(prev, result value.Value) (acc value.Value, ok bool)

	// AddSkipHook folds a skipped optional element into the
	// accumulator.
	AddSkipHook func(prev value.Value) (acc value.Value, ok bool)

	// BeginSeqHook seeds the seq-accumulator before the first item of
	// a sequence.
	BeginSeqHook func(prev value.Value) (seqAcc value.Value)

	// AddSeqHook folds a terminated seq-accumulator into the rule's
	// accumulator.
	AddSeqHook func(prev, seqAcc value.Value) (acc value.Value, ok bool)

	// SetPosHook annotates a matched element's result with the
	// position the element started at.
	SetPosHook func(result value.Value, start cursor.Pos)

	// EndHook finalizes a rule's accumulator into the rule's result.
	EndHook func(acc value.Value, payload any) (result value.Value, ok bool)

	// RecStartHook seeds a left-recursive rule's accumulator from the
	// already-parsed prefix value. Returning ok=false skips this
	// recursive rule without failing the overall iteration.
	RecStartHook func(prefix value.Value) (acc value.Value, ok bool)
)

// Element is one step of a Rule.
type Element struct {
	Kind ElementKind

	// Payload, keyed by Kind.
	NonTerm  *NonTerminal     // NonTerminalKind
	Grouping []*Rule          // GroupingKind
	Char     byte             // CharacterLiteralKind
	CharSet  *charset.Set     // CharacterSetKind
	Scan     UserTerminalFunc // UserTerminalKind

	Optional bool
	Sequence bool
	Avoid    bool
	Greedy   bool
	Chain    *Rule // only meaningful when Sequence is set

	Condition    ConditionHook
	ConditionArg any
	AddChar      AddCharHook
	Add          AddHook
	AddSkip      AddSkipHook
	BeginSeq     BeginSeqHook
	AddSeq       AddSeqHook
	SetPos       SetPosHook

	next *Element
}

// Next returns the next element in the rule's chain, or nil at the end.
func (e *Element) Next() *Element {
	if e == nil {
		return nil
	}
	return e.next
}

// Rule is an ordered, possibly empty list of elements plus optional
// semantic hooks.
type Rule struct {
	head, tail *Element

	End        EndHook
	EndPayload any
	RecStart   RecStartHook
}

// NewRule returns a new, empty, free-standing rule: the builder used
// for a Grouping element's alternatives and a sequence element's chain
// rule, neither of which belongs to any non-terminal's own rule lists.
func NewRule() *Rule {
	return &Rule{}
}

// First returns the rule's first element, or nil if the rule is empty.
func (r *Rule) First() *Element {
	return r.head
}

func (r *Rule) append(e *Element) *Element {
	if r.tail == nil {
		r.head = e
	} else {
		r.tail.next = e
	}
	r.tail = e
	return e
}

// NonTerminal adds a NonTerminal element referencing nt.
func (r *Rule) NonTerminal(nt *NonTerminal) *Element {
	return r.append(&Element{Kind: NonTerminalKind, NonTerm: nt})
}

// Group adds a Grouping element: an inline anonymous non-terminal
// whose alternatives are rules, tried in order.
func (r *Rule) Group(rules ...*Rule) *Element {
	return r.append(&Element{Kind: GroupingKind, Grouping: rules})
}

// Char adds a CharacterLiteral element matching a single byte.
func (r *Rule) Char(b byte) *Element {
	return r.append(&Element{Kind: CharacterLiteralKind, Char: b})
}

// CharSet adds a CharacterSet element matching any byte in cs.
func (r *Rule) CharSet(cs *charset.Set) *Element {
	return r.append(&Element{Kind: CharacterSetKind, CharSet: cs})
}

// EndOfInput adds an element that matches only at end of input.
func (r *Rule) EndOfInput() *Element {
	return r.append(&Element{Kind: EndOfInputKind})
}

// UserTerminal adds an element that delegates matching to fn.
func (r *Rule) UserTerminal(fn UserTerminalFunc) *Element {
	return r.append(&Element{Kind: UserTerminalKind, Scan: fn})
}

// SetEnd attaches the rule's end hook and its payload.
func (r *Rule) SetEnd(hook EndHook, payload any) *Rule {
	r.End = hook
	r.EndPayload = payload
	return r
}

// SetRecStart attaches a left-recursive rule's start hook.
func (r *Rule) SetRecStart(hook RecStartHook) *Rule {
	r.RecStart = hook
	return r
}

// Fluent element-flag/hook setters, returning e for chaining.

func (e *Element) SetOptional() *Element { e.Optional = true; return e }
func (e *Element) SetSequence() *Element { e.Sequence = true; return e }
func (e *Element) SetAvoid() *Element    { e.Avoid = true; return e }
func (e *Element) SetGreedy() *Element   { e.Greedy = true; return e }

// SetChain attaches a chain rule, parsed (and discarded) between
// successive items of a sequence element.
func (e *Element) SetChain(r *Rule) *Element { e.Chain = r; return e }

func (e *Element) OnCondition(h ConditionHook, arg any) *Element { e.Condition = h; e.ConditionArg = arg; return e }
func (e *Element) OnAddChar(h AddCharHook) *Element               { e.AddChar = h; return e }
func (e *Element) OnAdd(h AddHook) *Element                       { e.Add = h; return e }
func (e *Element) OnAddSkip(h AddSkipHook) *Element                { e.AddSkip = h; return e }
func (e *Element) OnBeginSeq(h BeginSeqHook) *Element               { e.BeginSeq = h; return e }
func (e *Element) OnAddSeq(h AddSeqHook) *Element                  { e.AddSeq = h; return e }
func (e *Element) OnSetPos(h SetPosHook) *Element                  { e.SetPos = h; return e }

// NonTerminal is a named production slot with two ordered rule lists:
// Normal and Recursive. Recursive holds left-recursive rules with the
// recursive self-reference already elided from the element list.
// Identity is by pointer: two *NonTerminal values are the same
// non-terminal iff they are the same pointer.
type NonTerminal struct {
	Name      string
	ID        int
	Normal    []*Rule
	Recursive []*Rule
}

// AddRule appends and returns a new, empty rule to nt's Normal list.
func (nt *NonTerminal) AddRule() *Rule {
	r := &Rule{}
	nt.Normal = append(nt.Normal, r)
	return r
}

// AddRecursiveRule appends and returns a new, empty rule to nt's
// Recursive list. The rule's element list must not mention nt as its
// first element: that self-reference is implicit.
func (nt *NonTerminal) AddRecursiveRule() *Rule {
	r := &Rule{}
	nt.Recursive = append(nt.Recursive, r)
	return r
}

// Grammar owns the arena of non-terminals built by find_or_add_nt-style
// lookups. NonTerminal order is insertion order.
type Grammar struct {
	byName map[string]*NonTerminal
	order  []*NonTerminal

	// Empty produces a fresh initialized-empty semantic value. The
	// engine calls it wherever §4.5's hook defaults need one: seeding a
	// sequence's accumulator, the add_skip/rec_start fallbacks, and a
	// user terminal's result slot. A grammar that carries no semantic
	// value at all may leave it nil.
	Empty value.Empty
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{byName: make(map[string]*NonTerminal)}
}

// SetEmpty attaches g's value factory and returns g for chaining.
func (g *Grammar) SetEmpty(empty value.Empty) *Grammar {
	g.Empty = empty
	return g
}

// NonTerm finds or creates the non-terminal named name.
func (g *Grammar) NonTerm(name string) *NonTerminal {
	if nt, ok := g.byName[name]; ok {
		return nt
	}
	nt := &NonTerminal{Name: name, ID: len(g.order)}
	g.order = append(g.order, nt)
	g.byName[name] = nt
	return nt
}

// Lookup returns the non-terminal named name, and whether it exists.
func (g *Grammar) Lookup(name string) (*NonTerminal, bool) {
	nt, ok := g.byName[name]
	return nt, ok
}

// NonTerminals returns every non-terminal in insertion order.
func (g *Grammar) NonTerminals() []*NonTerminal {
	return g.order
}

// Len returns the number of distinct non-terminals in the grammar,
// i.e. the size a cache strategy needs to index them by ID.
func (g *Grammar) Len() int {
	return len(g.order)
}
