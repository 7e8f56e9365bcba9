// Package expect implements farthest-failure diagnostics: the engine
// records every terminal element that failed to match, at whichever
// position is the farthest the parse ever reached, so a top-level
// failure can report "this far, expecting one of these".
package expect

import (
	"fmt"
	"strings"

	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/frame"
	"github.com/ava12/rawparse/grammar"
)

// MaxRecords bounds how many distinct expectations are kept at the
// farthest position.
const MaxRecords = 200

// Record pairs a failed terminal element with the non-terminal call
// stack that was active when it failed.
type Record struct {
	Frames  []frame.Frame
	Element *grammar.Element
}

// Tracker accumulates expectation Records at the farthest position
// reached by any failed element during a parse.
type Tracker struct {
	farthest cursor.Pos
	hasAny   bool
	stacks   []*frame.Stack
	elements []*grammar.Element
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Record notes that element failed to match at pos, with frames active
// at the time. If pos is farther than any previously recorded
// position, prior records are discarded. Duplicate (frames, element)
// pairs at the current farthest position are suppressed, and the
// record list is capped at MaxRecords.
func (t *Tracker) Record(pos cursor.Pos, frames *frame.Stack, element *grammar.Element) {
	if !t.hasAny || pos.Offset > t.farthest.Offset {
		t.farthest = pos
		t.hasAny = true
		t.stacks = t.stacks[:0]
		t.elements = t.elements[:0]
	} else if pos.Offset < t.farthest.Offset {
		return
	}

	for i, e := range t.elements {
		if e == element && frame.Equal(t.stacks[i], frames) {
			return
		}
	}

	if len(t.elements) >= MaxRecords {
		return
	}

	t.stacks = append(t.stacks, frames)
	t.elements = append(t.elements, element)
}

// Farthest returns the farthest position reached by any failed
// element, and whether any failure was ever recorded.
func (t *Tracker) Farthest() (cursor.Pos, bool) {
	return t.farthest, t.hasAny
}

// Records returns every recorded expectation at the farthest position.
func (t *Tracker) Records() []Record {
	records := make([]Record, len(t.elements))
	for i, e := range t.elements {
		records[i] = Record{Frames: t.stacks[i].Frames(), Element: e}
	}
	return records
}

// Describe renders an element's expectation for diagnostics: a
// single-quoted literal character, the phrase "a character set",
// "<eof>", or "<term>" (the last two as in the grammar readback form).
func Describe(e *grammar.Element) string {
	switch e.Kind {
	case grammar.CharacterLiteralKind:
		return fmt.Sprintf("%q", e.Char)
	case grammar.CharacterSetKind:
		return "a character set"
	case grammar.EndOfInputKind:
		return "<eof>"
	case grammar.UserTerminalKind:
		return "<term>"
	default:
		return e.Kind.String()
	}
}

// Report renders a one-line-per-expectation summary of t's farthest
// failure, suitable for a top-level diagnostic.
func (t *Tracker) Report() string {
	if !t.hasAny {
		return "no failures recorded"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "at line %d col %d, expected:\n", t.farthest.Line, t.farthest.Col)
	for _, r := range t.Records() {
		b.WriteString("  ")
		b.WriteString(Describe(r.Element))
		if len(r.Frames) > 0 {
			b.WriteString(" (in ")
			for i, f := range r.Frames {
				if i > 0 {
					b.WriteString(" < ")
				}
				b.WriteString(f.Name)
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
