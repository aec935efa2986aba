package position_test

import (
	"testing"

	"bennypowers.dev/embedfmt/internal/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionForOffset(t *testing.T) {
	lines := position.NewLines("<script>\nvar x=1\n</script>")

	tests := []struct {
		name   string
		offset int
		want   position.Position
	}{
		{name: "document start", offset: 0, want: position.Position{Row: 0, Column: 0}},
		{name: "end of opening tag", offset: 8, want: position.Position{Row: 0, Column: 8}},
		{name: "start of code row", offset: 9, want: position.Position{Row: 1, Column: 0}},
		{name: "newline after code", offset: 16, want: position.Position{Row: 1, Column: 7}},
		{name: "start of closing tag", offset: 17, want: position.Position{Row: 2, Column: 0}},
		{name: "document end", offset: 26, want: position.Position{Row: 2, Column: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lines.PositionForOffset(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := lines.OffsetForPosition(got)
			require.NoError(t, err)
			assert.Equal(t, tt.offset, back)
		})
	}

	t.Run("out of bounds", func(t *testing.T) {
		_, err := lines.PositionForOffset(27)
		assert.Error(t, err)
		_, err = lines.PositionForOffset(-1)
		assert.Error(t, err)
	})
}

func TestLineLength(t *testing.T) {
	lines := position.NewLines("a\r\nbcd\n\nlast")

	assert.Equal(t, 4, lines.Count())
	assert.Equal(t, 1, lines.LineLength(0), "carriage return is part of the terminator")
	assert.Equal(t, 3, lines.LineLength(1))
	assert.Equal(t, 0, lines.LineLength(2))
	assert.Equal(t, 4, lines.LineLength(3))
	assert.Equal(t, 0, lines.LineLength(4))
	assert.Equal(t, "bcd", lines.Line(1))
}

func TestOffsetForPositionRejectsColumnPastEnd(t *testing.T) {
	lines := position.NewLines("ab\ncd")
	_, err := lines.OffsetForPosition(position.Position{Row: 0, Column: 3})
	assert.Error(t, err)
	_, err = lines.OffsetForPosition(position.Position{Row: 2, Column: 0})
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	lines := position.NewLines("var x = 1\nshort")

	assert.Equal(t, position.Position{Row: 0, Column: 5}, lines.Clamp(position.Position{Row: 0, Column: 5}))
	assert.Equal(t, position.Position{Row: 1, Column: 5}, lines.Clamp(position.Position{Row: 1, Column: 40}))
	assert.Equal(t, position.Position{Row: 1, Column: 5}, lines.Clamp(position.Position{Row: 9, Column: 0}))
	assert.Equal(t, position.Position{}, lines.Clamp(position.Position{Row: -1, Column: 3}))
}

func TestUTF16Conversion(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		byteCol  int
		utf16Col int
	}{
		{name: "ASCII", line: "hello world", byteCol: 5, utf16Col: 5},
		{name: "emoji counts as surrogate pair", line: "👍 hello", byteCol: 4, utf16Col: 2},
		{name: "CJK is one unit per rune", line: "颜色", byteCol: 6, utf16Col: 2},
		{name: "mixed", line: "👍颜色🎨", byteCol: 14, utf16Col: 6},
		{name: "invalid byte is one unit", line: "hello\xFFworld", byteCol: 7, utf16Col: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.utf16Col, position.UTF16Column(tt.line, tt.byteCol))
			assert.Equal(t, tt.byteCol, position.ByteColumn(tt.line, tt.utf16Col))
		})
	}

	t.Run("surrogate pair midpoint clamps to rune start", func(t *testing.T) {
		assert.Equal(t, 0, position.ByteColumn("👍hello", 1))
	})

	t.Run("beyond end clamps to line length", func(t *testing.T) {
		assert.Equal(t, 5, position.ByteColumn("hello", 100))
		assert.Equal(t, 5, position.UTF16Column("hello", 100))
	})
}
