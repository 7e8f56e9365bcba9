// Package value defines the semantic-value composition contract the
// engine threads through a parse. The engine never inspects a value's
// payload; it only calls the lifecycle methods defined here, plus the
// grammar-supplied hooks that fold elements into an accumulator (see
// the grammar package's hook types).
package value

import "io"

// Value is a semantic value produced while parsing. Implementations
// are free to choose their own ownership discipline (reference
// counting, copy-on-write, arenas, ...) as long as the three
// lifecycle operations below behave as documented.
//
// The engine itself threads accumulators by replacement: a hook folds
// a prior accumulator and a new piece into a (possibly identical, in
// the case of an in-place append) Value and hands back the result, and
// a discarded back-tracking attempt's accumulator is simply dropped,
// relying on the garbage collector rather than an explicit Release.
// Assign/Transfer/Release exist for implementations that need a
// stronger discipline than that - an arena- or pool-backed Value, say
// - and are exercised directly on the concrete type rather than
// through the engine.
type Value interface {
	// Assign copies or shares src into the receiver, per the value's
	// own ownership discipline. The receiver's previous content, if
	// any, is released first.
	Assign(src Value)

	// Transfer moves the receiver's content out, leaving the receiver
	// in the initialized-empty state, and returns the moved content as
	// a Value of the same concrete type.
	Transfer() Value

	// Release drops the value. After Release, the value must not be
	// read again except via a fresh Assign.
	Release()

	// Print writes a diagnostic representation to w.
	Print(w io.Writer)
}

// Empty is a grammar-supplied factory that produces a fresh value in
// the initialized-empty state. Every non-terminal, rule, and sequence
// accumulator in the engine is seeded by calling Empty.
type Empty func() Value

// New returns a fresh empty value from empty, or nil if empty is nil:
// a grammar that never produces a value may omit Empty entirely, and
// the engine's own hook defaults treat a nil Value as a no-op.
func New(empty Empty) Value {
	if empty == nil {
		return nil
	}
	return empty()
}
