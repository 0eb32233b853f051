// Package source holds the position type shared by the scanner, the syntax
// tree and the diagnostic sink so that all four pipeline stages agree on a
// single coordinate system.
package source

import "fmt"

// Position locates a token or a tree node in a source file. Offset and
// Length are byte offsets into the original UTF-8 text; Line and Column are
// 1-based, with Column counted in runes from the start of the line.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
	Length int
}

// End returns the offset one past the last byte covered by the position.
func (p Position) End() int {
	return p.Offset + p.Length
}

// String renders "file:line:column", omitting the file when empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Contains reports whether other lies within p's span, inclusive. Tree
// wellformedness demands a child node's position be contained in or equal
// to its parent's span.
func (p Position) Contains(other Position) bool {
	return other.Offset >= p.Offset && other.End() <= p.End()
}
