package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes g's readback form to w: every non-terminal, in
// insertion order, each rule's element list rendered with the
// notation §6 describes (SEQ / SEQ BACK_TRACKING, CHAIN(...), OPT,
// AVOID, <eof>, <term>). This is a debugging aid, not a format
// Compile can read back in.
func Fprint(w io.Writer, g *Grammar) {
	for _, nt := range g.order {
		for _, r := range nt.Normal {
			fmt.Fprintf(w, "%s ::= ", nt.Name)
			printRule(w, r)
			fmt.Fprintln(w)
		}
		for _, r := range nt.Recursive {
			fmt.Fprintf(w, "%s ::= %s ", nt.Name, nt.Name)
			printRule(w, r)
			fmt.Fprintln(w)
		}
	}
}

// String returns g's readback form as produced by Fprint.
func (g *Grammar) String() string {
	var b strings.Builder
	Fprint(&b, g)
	return b.String()
}

func printRule(w io.Writer, r *Rule) {
	for e := r.First(); e != nil; e = e.Next() {
		if e != r.First() {
			fmt.Fprint(w, " ")
		}
		printElement(w, e)
	}
}

func printElement(w io.Writer, e *Element) {
	printPayload(w, e)

	if e.Sequence {
		if e.Greedy {
			fmt.Fprint(w, " SEQ")
		} else {
			fmt.Fprint(w, " SEQ BACK_TRACKING")
		}
		if e.Chain != nil {
			fmt.Fprint(w, " CHAIN(")
			printRule(w, e.Chain)
			fmt.Fprint(w, ")")
		}
	}
	if e.Optional {
		fmt.Fprint(w, " OPT")
	}
	if e.Avoid {
		fmt.Fprint(w, " AVOID")
	}
}

func printPayload(w io.Writer, e *Element) {
	switch e.Kind {
	case NonTerminalKind:
		fmt.Fprint(w, e.NonTerm.Name)
	case GroupingKind:
		fmt.Fprint(w, "(")
		for i, r := range e.Grouping {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			printRule(w, r)
		}
		fmt.Fprint(w, ")")
	case CharacterLiteralKind:
		fmt.Fprintf(w, "%q", string(e.Char))
	case CharacterSetKind:
		fmt.Fprint(w, "[...]")
	case EndOfInputKind:
		fmt.Fprint(w, "<eof>")
	case UserTerminalKind:
		fmt.Fprint(w, "<term>")
	}
}

