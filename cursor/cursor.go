// Package cursor tracks a 1-based line/column position while scanning
// an in-memory byte buffer.
//
// A Cursor is the engine's only notion of "where we are": it advances
// one byte at a time, expands tabs to the next tab stop the way a
// terminal would, and can be saved and cheaply restored so a failed
// back-tracking attempt can resume exactly where it started.
package cursor

// DefaultTabWidth is the tab width used when a Cursor is created
// without an explicit width.
const DefaultTabWidth = 4

// Pos is a saved cursor position: byte offset plus 1-based line and
// column. A Pos fully determines cursor state and is cheaply
// restorable with Cursor.Restore.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Cursor scans a byte buffer, tracking 1-based line and column.
type Cursor struct {
	name     string
	buf      []byte
	tabWidth int
	pos      Pos
}

// New creates a Cursor over buf, named name for diagnostics, using the
// default tab width. Equivalent to calling Assign on a zero Cursor.
func New(name string, buf []byte) *Cursor {
	c := &Cursor{}
	c.Assign(name, buf, DefaultTabWidth)
	return c
}

// Assign resets c to scan buf from the beginning, with the given tab
// width (DefaultTabWidth is used if tabWidth <= 0).
func (c *Cursor) Assign(name string, buf []byte, tabWidth int) {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	c.name = name
	c.buf = buf
	c.tabWidth = tabWidth
	c.pos = Pos{0, 1, 1}
}

// Name returns the input's name, as passed to Assign/New.
func (c *Cursor) Name() string {
	return c.name
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Bytes returns the full underlying buffer; callers must not mutate it.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// AtEnd reports whether the cursor has reached the end of the buffer.
func (c *Cursor) AtEnd() bool {
	return c.pos.Offset >= len(c.buf)
}

// Peek returns the byte at the current position and true, or 0 and
// false at end of input.
func (c *Cursor) Peek() (byte, bool) {
	if c.AtEnd() {
		return 0, false
	}
	return c.buf[c.pos.Offset], true
}

// Tail returns the unconsumed suffix of the buffer, for user-terminal
// scan functions.
func (c *Cursor) Tail() []byte {
	return c.buf[c.pos.Offset:]
}

// Advance consumes one byte, updating line/column: a tab jumps the
// column to the next multiple of the configured tab width plus one, a
// newline starts a new line at column 1, anything else advances the
// column by one. Advance is a no-op at end of input.
func (c *Cursor) Advance() {
	if c.AtEnd() {
		return
	}

	b := c.buf[c.pos.Offset]
	c.pos.Offset++
	switch b {
	case '\t':
		c.pos.Col = ((c.pos.Col-1)/c.tabWidth+1)*c.tabWidth + 1
	case '\n':
		c.pos.Line++
		c.pos.Col = 1
	default:
		c.pos.Col++
	}
}

// AdvanceTo moves the cursor forward to offset by repeatedly calling
// Advance. offset must be >= the current offset; AdvanceTo is used by
// user-terminal scan functions that report a new offset directly
// rather than byte-by-byte.
func (c *Cursor) AdvanceTo(offset int) {
	for c.pos.Offset < offset && !c.AtEnd() {
		c.Advance()
	}
}

// Save returns the current position.
func (c *Cursor) Save() Pos {
	return c.pos
}

// Restore resets the cursor to a previously saved position.
func (c *Cursor) Restore(p Pos) {
	c.pos = p
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() int {
	return c.pos.Offset
}

// SourceName implements rawparse.SourcePos.
func (c *Cursor) SourceName() string {
	return c.name
}

// Line returns the current 1-based line number.
func (c *Cursor) Line() int {
	return c.pos.Line
}

// Col returns the current 1-based column number.
func (c *Cursor) Col() int {
	return c.pos.Col
}

// PosAt returns a SourcePos-compatible value for an arbitrary saved
// position, without moving the cursor.
func (c *Cursor) PosAt(p Pos) SourcePosAt {
	return SourcePosAt{c.name, p}
}

// SourcePosAt adapts a saved Pos plus a source name to
// rawparse.SourcePos, for reporting diagnostics at a position other
// than the cursor's current one.
type SourcePosAt struct {
	name string
	pos  Pos
}

func (s SourcePosAt) SourceName() string { return s.name }
func (s SourcePosAt) Line() int          { return s.pos.Line }
func (s SourcePosAt) Col() int           { return s.pos.Col }
