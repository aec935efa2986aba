// Package position maps byte offsets in a text buffer to row/column
// positions and converts columns between UTF-8 bytes and the UTF-16 code
// units used by LSP clients.
package position

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a 0-based row and a 0-based byte column within that row
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Less reports whether p comes before other
func (p Position) Less(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Column < other.Column
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Range is a half-open span between two positions
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range covers no text
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// Lines is a line-start table for a snapshot of text.
// It must be rebuilt whenever the text changes.
type Lines struct {
	text   string
	starts []int
}

// NewLines indexes the line starts of text. Rows are separated by "\n";
// a trailing "\r" is part of the line terminator, not the line.
func NewLines(text string) *Lines {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{text: text, starts: starts}
}

// Count returns the number of rows, which is at least 1
func (l *Lines) Count() int {
	return len(l.starts)
}

// Line returns the text of row without its terminator, or "" for rows out of range
func (l *Lines) Line(row int) string {
	if row < 0 || row >= len(l.starts) {
		return ""
	}
	end := len(l.text)
	if row+1 < len(l.starts) {
		end = l.starts[row+1] - 1
	}
	return strings.TrimSuffix(l.text[l.starts[row]:end], "\r")
}

// LineLength returns the byte length of row without its terminator
func (l *Lines) LineLength(row int) int {
	return len(l.Line(row))
}

// PositionForOffset converts a byte offset into a position.
// Offsets outside [0, len(text)] are reported as errors.
func (l *Lines) PositionForOffset(offset int) (Position, error) {
	if offset < 0 || offset > len(l.text) {
		return Position{}, fmt.Errorf("offset %d out of bounds (length: %d)", offset, len(l.text))
	}
	row := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return Position{Row: row, Column: offset - l.starts[row]}, nil
}

// OffsetForPosition converts a position into a byte offset.
// Columns past the end of a row are an error; the end of the row is allowed.
func (l *Lines) OffsetForPosition(pos Position) (int, error) {
	if pos.Row < 0 || pos.Row >= len(l.starts) {
		return 0, fmt.Errorf("row %d out of bounds (rows: %d)", pos.Row, len(l.starts))
	}
	if pos.Column < 0 || pos.Column > l.LineLength(pos.Row) {
		return 0, fmt.Errorf("column %d out of bounds for row %d (length: %d)", pos.Column, pos.Row, l.LineLength(pos.Row))
	}
	return l.starts[pos.Row] + pos.Column, nil
}

// Clamp moves pos to the nearest valid position in the text
func (l *Lines) Clamp(pos Position) Position {
	if pos.Row < 0 {
		return Position{}
	}
	if pos.Row >= len(l.starts) {
		last := len(l.starts) - 1
		return Position{Row: last, Column: l.LineLength(last)}
	}
	pos.Column = max(0, min(pos.Column, l.LineLength(pos.Row)))
	return pos
}

// End returns the position just past the last character
func (l *Lines) End() Position {
	last := len(l.starts) - 1
	return Position{Row: last, Column: l.LineLength(last)}
}

// UTF16Column converts a byte column within line to UTF-16 code units.
// Invalid UTF-8 bytes count as one unit each.
func UTF16Column(line string, byteCol int) int {
	byteCol = min(max(byteCol, 0), len(line))
	units := 0
	for i := 0; i < byteCol; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > byteCol {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}

// ByteColumn converts a UTF-16 column within line to a byte column.
// A column that lands inside a surrogate pair is clamped to the start of the rune.
func ByteColumn(line string, utf16Col int) int {
	units := 0
	i := 0
	for i < len(line) && units < utf16Col {
		r, size := utf8.DecodeRuneInString(line[i:])
		n := 1
		if r != utf8.RuneError || size != 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > utf16Col {
			break
		}
		units += n
		i += size
	}
	return i
}
