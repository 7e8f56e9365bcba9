// Package engine implements the parsing engine (§4.6): a
// back-tracking recursive-descent interpreter over a grammar, carrying
// a semantic-value accumulator through every rule and folding it with
// the grammar's hooks.
//
// A Parser owns one cursor, one cache strategy, one expectation
// tracker and one frame stack; it is not safe for concurrent use, and
// none of its recursive procedures may be called re-entrantly from a
// grammar hook.
package engine

import (
	"strings"

	"github.com/ava12/rawparse"
	"github.com/ava12/rawparse/cache"
	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/expect"
	"github.com/ava12/rawparse/frame"
	"github.com/ava12/rawparse/grammar"
	"github.com/ava12/rawparse/value"
)

// eofExpectation is reported when a parse succeeds without consuming
// the whole input: the implicit end-of-input check §4.6.5's scenario 2
// describes as living "at the top-level driver" rather than in any
// rule.
var eofExpectation = &grammar.Element{Kind: grammar.EndOfInputKind}

// Parser runs a single parse against one grammar and one cursor.
type Parser struct {
	grammar *grammar.Grammar
	cursor  *cursor.Cursor
	cache   cache.Strategy
	expect  *expect.Tracker
	frames  *frame.Stack
}

// New returns a Parser over g and c. strategy is the memoization cache
// to consult; a nil strategy defaults to a BruteForce strategy sized
// for c's input.
func New(g *grammar.Grammar, c *cursor.Cursor, strategy cache.Strategy) *Parser {
	if strategy == nil {
		strategy = cache.NewBruteForce(c.Len())
	}
	return &Parser{grammar: g, cursor: c, cache: strategy, expect: expect.New()}
}

// Expect returns the parser's expectation tracker, enumerable after a
// failed Parse.
func (p *Parser) Expect() *expect.Tracker {
	return p.expect
}

// Parse parses the non-terminal named startName from the cursor's
// current position and additionally requires the match to consume the
// input to end of input. On failure the returned error is a
// *rawparse.Error describing the farthest position reached and what
// was expected there.
func (p *Parser) Parse(startName string) (value.Value, error) {
	nt, ok := p.grammar.Lookup(startName)
	if !ok {
		return nil, rawparse.FormatError(rawparse.EngineErrors, "unknown start non-terminal %q", startName)
	}

	ok, result := p.parseNT(nt)
	if !ok {
		return nil, p.failureError()
	}

	if !p.cursor.AtEnd() {
		p.expect.Record(p.cursor.Save(), p.frames, eofExpectation)
		return nil, p.failureError()
	}

	return result, nil
}

func (p *Parser) failureError() error {
	pos, ok := p.expect.Farthest()
	if !ok {
		return rawparse.FormatError(rawparse.EngineErrors, "parse failed")
	}
	return rawparse.FormatErrorPos(p.cursor.PosAt(pos), rawparse.EngineErrors, "%s", strings.TrimRight(p.expect.Report(), "\n"))
}

// parseNT is §4.6.1.
func (p *Parser) parseNT(nt *grammar.NonTerminal) (bool, value.Value) {
	startPos := p.cursor.Save()

	entry := p.cache.Lookup(startPos, nt)
	switch entry.Outcome {
	case cache.Success:
		p.cursor.Restore(entry.Next)
		return true, entry.Value
	case cache.Fail:
		return false, nil
	}

	cache.Apply(p.cache, entry, startPos, nt, cache.Fail, nil, cursor.Pos{})
	p.frames = p.frames.Push(nt.Name, startPos)

	var current value.Value
	matched := false
	for _, r := range nt.Normal {
		p.cursor.Restore(startPos)
		if ok, result := p.runRule(r); ok {
			current = result
			matched = true
			break
		}
	}

	if !matched {
		p.frames = p.frames.Pop()
		return false, nil
	}

	for {
		extended := false
		for _, r := range nt.Recursive {
			saved := p.cursor.Save()
			acc, ok := p.applyRecStart(r, current)
			if !ok {
				continue
			}
			if ok, result := p.parseRule(r.First(), acc, r); ok {
				current = result
				extended = true
				break
			}
			p.cursor.Restore(saved)
		}
		if !extended {
			break
		}
	}

	endPos := p.cursor.Save()
	cache.Apply(p.cache, entry, startPos, nt, cache.Success, current, endPos)
	p.frames = p.frames.Pop()
	return true, current
}

// runRule parses r from a fresh accumulator: used for a non-terminal's
// own rules, a grouping's alternatives, and a chain rule.
func (p *Parser) runRule(r *grammar.Rule) (bool, value.Value) {
	return p.parseRule(r.First(), p.freshAccumulator(), r)
}

func (p *Parser) freshAccumulator() value.Value {
	if p.grammar.Empty == nil {
		return nil
	}
	return p.grammar.Empty()
}

// parseRule is §4.6.2: a greedy prefix (part A) followed by the
// back-tracking tail (part B).
func (p *Parser) parseRule(e *grammar.Element, acc value.Value, rule *grammar.Rule) (bool, value.Value) {
	for e != nil && e.Greedy {
		ok, newAcc := p.parseGreedyElement(e, acc)
		if !ok {
			return false, nil
		}
		acc = newAcc
		e = e.Next()
	}

	return p.parseRuleTail(e, acc, rule)
}

// parseGreedyElement consumes one greedy head element: a single
// mandatory-unless-optional match, or, for a sequence, as many
// consecutive matches as possible with no back-tracking. avoid is
// ignored on a greedy element (§4.6.2 part A).
func (p *Parser) parseGreedyElement(e *grammar.Element, acc value.Value) (bool, value.Value) {
	if !e.Sequence {
		ok, result := p.parseElement(e, acc)
		if ok {
			return true, result
		}
		if e.Optional {
			skipAcc, ok := p.applyAddSkip(e, acc)
			return ok, skipAcc
		}
		return false, nil
	}

	seqAcc := p.applyBeginSeq(e, acc)
	count := 0
	for {
		saved := p.cursor.Save()
		if count > 0 && e.Chain != nil {
			if ok, _ := p.runRule(e.Chain); !ok {
				p.cursor.Restore(saved)
				break
			}
		}
		ok, newSeqAcc := p.parseElement(e, seqAcc)
		if !ok {
			p.cursor.Restore(saved)
			break
		}
		seqAcc = newSeqAcc
		count++
	}

	if count == 0 {
		if e.Optional {
			skipAcc, ok := p.applyAddSkip(e, acc)
			return ok, skipAcc
		}
		return false, nil
	}

	seqResult, ok := p.applyAddSeq(e, acc, seqAcc)
	return ok, seqResult
}

// parseRuleTail is §4.6.2 part B.
func (p *Parser) parseRuleTail(e *grammar.Element, acc value.Value, rule *grammar.Rule) (bool, value.Value) {
	if e == nil {
		return p.applyEnd(rule, acc)
	}

	if e.Optional && e.Avoid {
		if skipAcc, ok := p.applyAddSkip(e, acc); ok {
			if ok2, result := p.parseRuleTail(e.Next(), skipAcc, rule); ok2 {
				return true, result
			}
		}
	}

	saved := p.cursor.Save()

	if e.Sequence {
		seqAcc := p.applyBeginSeq(e, acc)
		if ok, itemAcc := p.parseElement(e, seqAcc); ok {
			if ok2, result := p.parseSeq(e, itemAcc, acc, rule); ok2 {
				return true, result
			}
		}
		p.cursor.Restore(saved)
	} else {
		if ok, newAcc := p.parseElement(e, acc); ok {
			if ok2, result := p.parseRuleTail(e.Next(), newAcc, rule); ok2 {
				return true, result
			}
		}
		p.cursor.Restore(saved)
	}

	if e.Optional && !e.Avoid {
		if skipAcc, ok := p.applyAddSkip(e, acc); ok {
			if ok2, result := p.parseRuleTail(e.Next(), skipAcc, rule); ok2 {
				return true, result
			}
		}
	}

	return false, nil
}

// parseSeq is §4.6.3: the back-tracking tail of a non-greedy sequence,
// after its first item has already matched. The open question on
// avoid's priority (§9) resolves here: with avoid, the remainder is
// tried first and the sequence is extended only on its failure;
// without avoid, the sequence is extended first and the remainder only
// tried once extending fails.
func (p *Parser) parseSeq(e *grammar.Element, seqAcc, prevAcc value.Value, rule *grammar.Rule) (bool, value.Value) {
	if e.Avoid {
		if ok, result := p.finishSeq(e, seqAcc, prevAcc, rule); ok {
			return true, result
		}
	}

	if ok, result := p.extendSeq(e, seqAcc, prevAcc, rule); ok {
		return true, result
	}

	if !e.Avoid {
		if ok, result := p.finishSeq(e, seqAcc, prevAcc, rule); ok {
			return true, result
		}
	}

	return false, nil
}

func (p *Parser) finishSeq(e *grammar.Element, seqAcc, prevAcc value.Value, rule *grammar.Rule) (bool, value.Value) {
	newAcc, ok := p.applyAddSeq(e, prevAcc, seqAcc)
	if !ok {
		return false, nil
	}
	return p.parseRuleTail(e.Next(), newAcc, rule)
}

func (p *Parser) extendSeq(e *grammar.Element, seqAcc, prevAcc value.Value, rule *grammar.Rule) (bool, value.Value) {
	saved := p.cursor.Save()

	if e.Chain != nil {
		if ok, _ := p.runRule(e.Chain); !ok {
			p.cursor.Restore(saved)
			return false, nil
		}
	}

	ok, itemAcc := p.parseElement(e, seqAcc)
	if !ok {
		p.cursor.Restore(saved)
		return false, nil
	}

	if ok, result := p.parseSeq(e, itemAcc, prevAcc, rule); ok {
		return true, result
	}

	p.cursor.Restore(saved)
	return false, nil
}

// parseElement is §4.6.4: one occurrence of one element, folded into
// whichever accumulator is active (a rule's or a sequence's).
func (p *Parser) parseElement(e *grammar.Element, prevAcc value.Value) (bool, value.Value) {
	start := p.cursor.Save()

	switch e.Kind {
	case grammar.NonTerminalKind:
		ok, result := p.parseNT(e.NonTerm)
		if !ok {
			p.cursor.Restore(start)
			return false, prevAcc
		}
		return p.finishTerm(e, prevAcc, result, start)

	case grammar.GroupingKind:
		result, ok := p.runGrouping(e)
		if !ok {
			p.cursor.Restore(start)
			return false, prevAcc
		}
		return p.finishTerm(e, prevAcc, result, start)

	case grammar.EndOfInputKind:
		if !p.cursor.AtEnd() {
			p.expect.Record(start, p.frames, e)
			return false, prevAcc
		}
		return true, prevAcc

	case grammar.CharacterLiteralKind:
		b, ok := p.cursor.Peek()
		if !ok || b != e.Char {
			p.expect.Record(start, p.frames, e)
			return false, prevAcc
		}
		p.cursor.Advance()
		newAcc, ok2 := p.applyAddChar(e, prevAcc, b)
		if !ok2 {
			p.cursor.Restore(start)
			return false, prevAcc
		}
		return true, newAcc

	case grammar.CharacterSetKind:
		b, ok := p.cursor.Peek()
		if !ok || !e.CharSet.Contains(b) {
			p.expect.Record(start, p.frames, e)
			return false, prevAcc
		}
		p.cursor.Advance()
		newAcc, ok2 := p.applyAddChar(e, prevAcc, b)
		if !ok2 {
			p.cursor.Restore(start)
			return false, prevAcc
		}
		return true, newAcc

	case grammar.UserTerminalKind:
		result := value.New(p.grammar.Empty)
		consumed := e.Scan(p.cursor.Tail(), result)
		if consumed <= 0 {
			p.expect.Record(start, p.frames, e)
			return false, prevAcc
		}
		p.cursor.AdvanceTo(start.Offset + consumed)
		return p.finishTerm(e, prevAcc, result, start)
	}

	return false, prevAcc
}

// finishTerm applies condition, set_pos and add to a NonTerminal,
// Grouping or UserTerminal element's raw result, shared by the three
// parseElement cases that produce one.
func (p *Parser) finishTerm(e *grammar.Element, prevAcc, result value.Value, start cursor.Pos) (bool, value.Value) {
	if e.Condition != nil && !e.Condition(result, e.ConditionArg) {
		p.cursor.Restore(start)
		return false, prevAcc
	}
	if e.SetPos != nil {
		e.SetPos(result, start)
	}
	newAcc, ok := p.applyAdd(e, prevAcc, result)
	if !ok {
		p.cursor.Restore(start)
		return false, prevAcc
	}
	return true, newAcc
}

// runGrouping tries a Grouping element's alternative rules in order,
// each from a fresh accumulator, the same as an inline anonymous
// non-terminal would.
func (p *Parser) runGrouping(e *grammar.Element) (value.Value, bool) {
	for _, r := range e.Grouping {
		start := p.cursor.Save()
		if ok, result := p.runRule(r); ok {
			return result, true
		}
		p.cursor.Restore(start)
	}
	return nil, false
}

// Hook application, each with the default behaviour §4.5 specifies
// for a null hook.

func (p *Parser) applyAdd(e *grammar.Element, prev, result value.Value) (value.Value, bool) {
	if e.Add == nil {
		return prev, true
	}
	return e.Add(prev, result)
}

func (p *Parser) applyAddChar(e *grammar.Element, prev value.Value, b byte) (value.Value, bool) {
	if e.AddChar == nil {
		return prev, true
	}
	return e.AddChar(prev, b)
}

func (p *Parser) applyAddSkip(e *grammar.Element, prev value.Value) (value.Value, bool) {
	if e.AddSkip != nil {
		return e.AddSkip(prev)
	}
	if e.Add != nil {
		return e.Add(prev, value.New(p.grammar.Empty))
	}
	return prev, true
}

func (p *Parser) applyBeginSeq(e *grammar.Element, prev value.Value) value.Value {
	if e.BeginSeq != nil {
		return e.BeginSeq(prev)
	}
	return value.New(p.grammar.Empty)
}

func (p *Parser) applyAddSeq(e *grammar.Element, prev, seqAcc value.Value) (value.Value, bool) {
	if e.AddSeq == nil {
		return prev, true
	}
	return e.AddSeq(prev, seqAcc)
}

func (p *Parser) applyEnd(rule *grammar.Rule, acc value.Value) (bool, value.Value) {
	if rule.End == nil {
		return true, acc
	}
	result, ok := rule.End(acc, rule.EndPayload)
	return ok, result
}

func (p *Parser) applyRecStart(rule *grammar.Rule, prefix value.Value) (value.Value, bool) {
	if rule.RecStart == nil {
		return value.New(p.grammar.Empty), true
	}
	return rule.RecStart(prefix)
}
