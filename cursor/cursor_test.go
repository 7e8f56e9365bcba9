package cursor

import (
	"testing"
)

func drive(c *Cursor) []Pos {
	positions := make([]Pos, 0, c.Len()+1)
	positions = append(positions, c.Save())
	for !c.AtEnd() {
		c.Advance()
		positions = append(positions, c.Save())
	}
	return positions
}

func TestAdvanceLineCol(t *testing.T) {
	samples := map[string][]Pos{
		"": {
			{0, 1, 1},
		},
		"ab": {
			{0, 1, 1},
			{1, 1, 2},
			{2, 1, 3},
		},
		"a\nb": {
			{0, 1, 1},
			{1, 1, 2},
			{2, 2, 1},
			{3, 2, 2},
		},
	}

	for text, want := range samples {
		c := New("", []byte(text))
		got := drive(c)
		if len(got) != len(want) {
			t.Fatalf("sample %q: expected %d positions, got %d", text, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sample %q: position %d: expected %v, got %v", text, i, want[i], got[i])
			}
		}
	}
}

func TestAdvanceTabWidth(t *testing.T) {
	c := &Cursor{}
	c.Assign("", []byte("a\tb"), 4)
	c.Advance()
	if c.Col() != 2 {
		t.Fatalf("expected col 2 after 'a', got %d", c.Col())
	}
	c.Advance()
	if c.Col() != 5 {
		t.Fatalf("expected tab to jump to col 5, got %d", c.Col())
	}
}

func TestSaveRestore(t *testing.T) {
	c := New("", []byte("abcdef"))
	c.Advance()
	c.Advance()
	mark := c.Save()
	c.Advance()
	c.Advance()
	if c.Offset() != 4 {
		t.Fatalf("expected offset 4, got %d", c.Offset())
	}
	c.Restore(mark)
	if c.Offset() != 2 || c.Line() != 1 || c.Col() != 3 {
		t.Fatalf("restore did not reset cursor: %v", c.Save())
	}
}

func TestAtEndAndPeek(t *testing.T) {
	c := New("", []byte("x"))
	if c.AtEnd() {
		t.Fatal("expected cursor not at end initially")
	}
	b, ok := c.Peek()
	if !ok || b != 'x' {
		t.Fatalf("expected peek 'x', got %q %v", b, ok)
	}
	c.Advance()
	if !c.AtEnd() {
		t.Fatal("expected cursor at end after consuming sole byte")
	}
	if _, ok := c.Peek(); ok {
		t.Fatal("expected peek to fail at end of input")
	}
}
