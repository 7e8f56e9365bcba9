package grammar

import (
	"github.com/ava12/rawparse"
	"github.com/ava12/rawparse/charset"
	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/stringvalue"
	"github.com/ava12/rawparse/value"
)

// Compile reads a small EBNF-like grammar description and returns the
// Grammar it denotes. This is a convenience surface for driver code
// (the CLI in particular) that would rather write a grammar as text
// than call the builder API directly; it understands only the element
// set the engine interprets. Every compiled element carries a default
// text-accumulating hook chain that concatenates whatever it matches
// into a *stringvalue.Value accumulator - a caller wanting a richer
// semantic value still has to build its grammar with the Rule/Element
// API directly and attach its own hooks, but a Compile-d grammar is
// never silently mute. A Compile-d grammar must be paired with
// stringvalue.Empty (Grammar.SetEmpty); the CLI does this.
//
// Grammar text:
//
//	name ::= alternative ( '|' alternative )* ';'
//
// An alternative is a space-separated list of elements. A rule whose
// alternative starts with its own non-terminal's name is registered
// as a left-recursive rule, with that leading reference elided, the
// same way §4.3 describes.
//
// Elements:
//
//	'x'        character literal
//	[a-zA-Z_]  character set: single chars and a-b ranges, ^ negates
//	name       non-terminal reference
//	( ... )    grouping: alternatives separated by '|'
//	$          end of input
//
// Suffixes, any combination, read left to right:
//
//	?   optional        *   sequence, 0 or more (implies ?)
//	+   sequence, 1+     !   greedy (commit, no back-tracking)
//	~   avoid
//	/e  chain: e is itself one element (with its own suffixes),
//	    parsed between successive items of a * or + sequence
func Compile(src []byte) (*Grammar, error) {
	c := &compiler{cur: cursor.New("<grammar>", src), g: New()}
	c.skipSpace()
	for !c.cur.AtEnd() {
		if err := c.parseProduction(); err != nil {
			return nil, err
		}
		c.skipSpace()
	}
	return c.g, nil
}

type compiler struct {
	cur *cursor.Cursor
	g   *Grammar
}

func (c *compiler) errorf(format string, args ...any) error {
	return rawparse.FormatErrorPos(c.cur, rawparse.GrammarErrors, format, args...)
}

func (c *compiler) peek() (byte, bool) {
	return c.cur.Peek()
}

func (c *compiler) skipSpace() {
	for {
		b, ok := c.peek()
		if !ok || (b != ' ' && b != '\t' && b != '\n' && b != '\r') {
			return
		}
		c.cur.Advance()
	}
}

func isNameByte(b byte, first bool) bool {
	if b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') {
		return true
	}
	if !first && b >= '0' && b <= '9' {
		return true
	}
	return false
}

func (c *compiler) readName() (string, bool) {
	start := c.cur.Save()
	b, ok := c.peek()
	if !ok || !isNameByte(b, true) {
		return "", false
	}
	for {
		b, ok := c.peek()
		if !ok || !isNameByte(b, false) {
			break
		}
		c.cur.Advance()
	}
	return string(c.cur.Bytes()[start.Offset:c.cur.Offset()]), true
}

func (c *compiler) expect(b byte) error {
	got, ok := c.peek()
	if !ok || got != b {
		return c.errorf("expected %q", string(b))
	}
	c.cur.Advance()
	return nil
}

func (c *compiler) parseProduction() error {
	name, ok := c.readName()
	if !ok {
		return c.errorf("expected a non-terminal name")
	}
	nt := c.g.NonTerm(name)

	c.skipSpace()
	if err := c.expectLiteral("::="); err != nil {
		return err
	}
	c.skipSpace()

	for {
		r, recursive, err := c.parseAlternative(nt)
		if err != nil {
			return err
		}
		if recursive {
			nt.Recursive = append(nt.Recursive, r)
		} else {
			nt.Normal = append(nt.Normal, r)
		}

		c.skipSpace()
		b, ok := c.peek()
		if ok && b == '|' {
			c.cur.Advance()
			c.skipSpace()
			continue
		}
		break
	}

	return c.expect(';')
}

func (c *compiler) expectLiteral(s string) error {
	for i := 0; i < len(s); i++ {
		if err := c.expect(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// parseAlternative reads one rule body up to (not consuming) '|' or
// ';'. If the body's first element is a bare reference to own, that
// reference is elided and recursive is reported true.
func (c *compiler) parseAlternative(own *NonTerminal) (*Rule, bool, error) {
	r := NewRule()
	recursive := false
	first := true

	for {
		c.skipSpace()
		b, ok := c.peek()
		if !ok || b == '|' || b == ';' {
			break
		}

		if first {
			if name, peeked := c.peekName(); peeked && name == own.Name {
				c.readName()
				recursive = true
				first = false
				continue
			}
		}
		first = false

		if err := c.parseElement(r); err != nil {
			return nil, false, err
		}
	}

	return r, recursive, nil
}

func (c *compiler) peekName() (string, bool) {
	saved := c.cur.Save()
	name, ok := c.readName()
	c.cur.Restore(saved)
	return name, ok
}

func (c *compiler) parseElement(r *Rule) error {
	b, ok := c.peek()
	if !ok {
		return c.errorf("expected an element")
	}

	var e *Element

	switch {
	case b == '\'':
		ch, err := c.parseQuotedChar()
		if err != nil {
			return err
		}
		e = r.Char(ch)

	case b == '[':
		cs, err := c.parseCharSet()
		if err != nil {
			return err
		}
		e = r.CharSet(cs)

	case b == '$':
		c.cur.Advance()
		e = r.EndOfInput()

	case b == '(':
		c.cur.Advance()
		var rules []*Rule
		for {
			c.skipSpace()
			sub := NewRule()
			if err := c.parseGroupedAlternative(sub); err != nil {
				return err
			}
			rules = append(rules, sub)
			c.skipSpace()
			nb, nok := c.peek()
			if nok && nb == '|' {
				c.cur.Advance()
				continue
			}
			break
		}
		if err := c.expect(')'); err != nil {
			return err
		}
		e = r.Group(rules...)

	case isNameByte(b, true):
		name, _ := c.readName()
		e = r.NonTerminal(c.g.NonTerm(name))

	default:
		return c.errorf("unexpected character %q", string(b))
	}

	attachTextHook(e)

	if err := c.parseSuffixes(e); err != nil {
		return err
	}

	if e.Sequence {
		e.OnBeginSeq(beginTextSeqHook)
		e.OnAddSeq(appendTextHook)
	}

	return nil
}

// attachTextHook wires e's kind-specific default hook: consumed
// characters fold byte by byte, matched sub-results fold whole. End of
// input contributes nothing and gets no hook.
func attachTextHook(e *Element) {
	switch e.Kind {
	case CharacterLiteralKind, CharacterSetKind:
		e.OnAddChar(appendCharHook)
	case NonTerminalKind, GroupingKind, UserTerminalKind:
		e.OnAdd(appendTextHook)
	}
}

// appendTextHook folds result's accumulated text into prev, used as
// both the add and add_seq default: a seq-accumulator is itself a
// *stringvalue.Value, so merging one sequence item's result or a whole
// finished sequence into the enclosing accumulator is the same
// operation. The result is a fresh value: prev is never written, so an
// accumulator handed to a back-tracking attempt that later fails still
// holds only what was matched before that attempt. Either side being
// some other value.Value implementation (a hand-built grammar sharing
// Compile's elements with its own Empty) makes this a silent no-op
// rather than a panic.
func appendTextHook(prev, result value.Value) (value.Value, bool) {
	if dst, src := stringvalue.AsValue(prev), stringvalue.AsValue(result); dst != nil && src != nil {
		out := &stringvalue.Value{}
		out.Set(dst.String())
		out.Append(src)
		return out, true
	}
	return prev, true
}

func appendCharHook(prev value.Value, b byte) (value.Value, bool) {
	if dst := stringvalue.AsValue(prev); dst != nil {
		out := &stringvalue.Value{}
		out.Set(dst.String())
		out.AppendByte(b)
		return out, true
	}
	return prev, true
}

func beginTextSeqHook(prev value.Value) value.Value {
	return stringvalue.Empty()
}

// parseGroupedAlternative is parseAlternative without recursive-rule
// detection: groupings have no identity of their own to recurse into.
func (c *compiler) parseGroupedAlternative(r *Rule) error {
	for {
		c.skipSpace()
		b, ok := c.peek()
		if !ok || b == '|' || b == ')' {
			return nil
		}
		if err := c.parseElement(r); err != nil {
			return err
		}
	}
}

func (c *compiler) parseSuffixes(e *Element) error {
	for {
		b, ok := c.peek()
		if !ok {
			return nil
		}
		switch b {
		case '?':
			c.cur.Advance()
			e.SetOptional()
		case '*':
			c.cur.Advance()
			e.SetSequence().SetOptional()
		case '+':
			c.cur.Advance()
			e.SetSequence()
		case '!':
			c.cur.Advance()
			e.SetGreedy()
		case '~':
			c.cur.Advance()
			e.SetAvoid()
		case '/':
			c.cur.Advance()
			chain := NewRule()
			if err := c.parseElement(chain); err != nil {
				return err
			}
			e.SetChain(chain)
		default:
			return nil
		}
	}
}

func (c *compiler) parseQuotedChar() (byte, error) {
	if err := c.expect('\''); err != nil {
		return 0, err
	}
	b, ok := c.peek()
	if !ok {
		return 0, c.errorf("unterminated character literal")
	}
	c.cur.Advance()
	if err := c.expect('\''); err != nil {
		return 0, err
	}
	return b, nil
}

func (c *compiler) parseCharSet() (*charset.Set, error) {
	if err := c.expect('['); err != nil {
		return nil, err
	}

	cs := charset.New()
	negate := false
	if b, ok := c.peek(); ok && b == '^' {
		negate = true
		c.cur.Advance()
	}

	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.errorf("unterminated character set")
		}
		if b == ']' {
			break
		}
		c.cur.Advance()

		lo := b
		if nb, nok := c.peek(); nok && nb == '-' {
			peekSaved := c.cur.Save()
			c.cur.Advance()
			hi, hok := c.peek()
			if hok && hi != ']' {
				c.cur.Advance()
				cs.AddRange(lo, hi)
				continue
			}
			c.cur.Restore(peekSaved)
		}
		cs.Add(lo)
	}

	if err := c.expect(']'); err != nil {
		return nil, err
	}

	if negate {
		cs = cs.Negate()
	}
	return cs, nil
}
