// Package stringvalue is a small value.Value implementation that
// accumulates a string, one byte or sub-value at a time. It is the
// one semantic-value type the engine's own tests and the CLI's
// default grammar build on; a grammar with richer AST needs is free to
// implement value.Value itself.
package stringvalue

import (
	"fmt"
	"io"

	"github.com/ava12/rawparse/value"
)

// Value holds an accumulated string.
type Value struct {
	s string
}

// Empty returns a fresh, empty Value as a value.Value, suitable as a
// grammar's value.Empty factory.
func Empty() value.Value {
	return &Value{}
}

// String returns v's accumulated content.
func (v *Value) String() string {
	return v.s
}

// Set overwrites v's content.
func (v *Value) Set(s string) {
	v.s = s
}

// AppendByte appends one byte to v's content, for use as an add_char
// hook.
func (v *Value) AppendByte(b byte) {
	v.s += string(b)
}

// Append appends another Value's content to v, for use as an add/
// add_seq hook.
func (v *Value) Append(other *Value) {
	if other != nil {
		v.s += other.s
	}
}

func (v *Value) Assign(src value.Value) {
	if other, ok := src.(*Value); ok {
		v.s = other.s
	}
}

func (v *Value) Transfer() value.Value {
	out := &Value{s: v.s}
	v.s = ""
	return out
}

func (v *Value) Release() {
	v.s = ""
}

func (v *Value) Print(w io.Writer) {
	fmt.Fprintf(w, "%q", v.s)
}

// AsValue is a convenience cast used by grammar hooks that receive a
// generic value.Value known to be a *Value.
func AsValue(v value.Value) *Value {
	if v == nil {
		return nil
	}
	sv, _ := v.(*Value)
	return sv
}
