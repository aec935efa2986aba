package remap_test

import (
	"testing"

	"bennypowers.dev/embedfmt/internal/documents"
	"bennypowers.dev/embedfmt/internal/position"
	"bennypowers.dev/embedfmt/internal/remap"
	"bennypowers.dev/embedfmt/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(row, col int) position.Position {
	return position.Position{Row: row, Column: col}
}

func TestToOverwriteRange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		region   scanner.Region
		want     position.Range
		interior bool
		source   string
	}{
		{
			name:     "single row overwrites the exact span",
			text:     "<script>var x=1</script>",
			region:   scanner.Region{Start: 8, End: 15},
			want:     position.Range{Start: pos(0, 8), End: pos(0, 15)},
			interior: true,
			source:   "var x=1",
		},
		{
			name:     "multi row skips the delimiter rows",
			text:     "<template><script>\nvar x=1\n</script></template>",
			region:   scanner.Region{Start: 18, End: 27},
			want:     position.Range{Start: pos(1, 0), End: pos(1, 7)},
			interior: true,
			source:   "var x=1\n",
		},
		{
			name:     "code after the opening tag stays with the delimiter row",
			text:     "<script>var a\nvar b\nvar c\n  </script>",
			region:   scanner.Region{Start: 8, End: 28},
			want:     position.Range{Start: pos(1, 0), End: pos(2, 5)},
			interior: true,
			source:   "var b\nvar c\n",
		},
		{
			name:     "region starting at document top",
			text:     "a\nb\nc",
			region:   scanner.Region{Start: 0, End: 5},
			want:     position.Range{Start: pos(1, 0), End: pos(1, 1)},
			interior: true,
			source:   "b\n",
		},
		{
			name:     "two rows have no interior",
			text:     "<script>\n</script>",
			region:   scanner.Region{Start: 8, End: 9},
			want:     position.Range{Start: pos(1, 0), End: pos(1, 0)},
			interior: false,
			source:   "",
		},
		{
			name:     "empty interior row",
			text:     "<script>\n\n</script>",
			region:   scanner.Region{Start: 8, End: 10},
			want:     position.Range{Start: pos(1, 0), End: pos(1, 0)},
			interior: true,
			source:   "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := documents.NewDocument("file:///test.html", "html", 0, tt.text)

			got, err := remap.ToOverwriteRange(doc, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Range)
			assert.Equal(t, tt.interior, got.Interior)

			if tt.interior {
				source, err := doc.TextInRange(got.SourceRange())
				require.NoError(t, err)
				assert.Equal(t, tt.source, source)
			}
		})
	}
}

func TestOverwriteRangeExcludesBoundaryRows(t *testing.T) {
	text := "<div>\n<script>\nconst a = 1\nconst b = 2\n\n</script>\n</div>\n"
	doc := documents.NewDocument("file:///test.html", "html", 0, text)

	for region := range scanner.Scan(text) {
		start, err := doc.PositionForOffset(region.Start)
		require.NoError(t, err)
		end, err := doc.PositionForOffset(region.End)
		require.NoError(t, err)
		require.NotEqual(t, start.Row, end.Row)

		got, err := remap.ToOverwriteRange(doc, region)
		require.NoError(t, err)
		assert.Greater(t, got.Start.Row, start.Row)
		assert.Less(t, got.End.Row, end.Row)
		assert.Equal(t, 4, got.End.Row)

		source, err := doc.TextInRange(got.SourceRange())
		require.NoError(t, err)
		assert.Equal(t, "const a = 1\nconst b = 2\n\n", source)
	}
}

func TestToOverwriteRangeStaleOffsets(t *testing.T) {
	doc := documents.NewDocument("file:///test.html", "html", 0, "<script>a</script>")

	tests := []scanner.Region{
		{Start: 8, End: 40},
		{Start: -1, End: 3},
		{Start: 9, End: 8},
	}

	for _, region := range tests {
		t.Run(region.String(), func(t *testing.T) {
			_, err := remap.ToOverwriteRange(doc, region)
			require.Error(t, err)
			assert.ErrorIs(t, err, remap.ErrStaleRegion)

			var consistency *remap.ConsistencyError
			require.ErrorAs(t, err, &consistency)
			assert.Equal(t, 18, consistency.Length)
		})
	}
}
