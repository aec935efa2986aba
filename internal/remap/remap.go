// Package remap converts scanner regions into row/column ranges that are
// safe to overwrite in a document.
package remap

import (
	"errors"
	"fmt"

	"bennypowers.dev/embedfmt/internal/position"
	"bennypowers.dev/embedfmt/internal/scanner"
)

// ErrStaleRegion indicates region offsets that do not fit the current document
var ErrStaleRegion = errors.New("region offsets do not match document")

// ConsistencyError reports a region that cannot be mapped onto a document,
// usually because the document changed after it was scanned
type ConsistencyError struct {
	Region scanner.Region
	Length int
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("region %s does not fit document of %d bytes: %s", e.Region, e.Length, e.Reason)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrStaleRegion
}

// Document is the part of a text buffer the remapper reads
type Document interface {
	Text() string
	PositionForOffset(offset int) (position.Position, error)
	LineLength(row int) int
}

// OverwriteRange is the part of a region that may be replaced.
// For a region spanning several rows, the rows holding the region's first
// and last offsets belong to the opening and closing tags and are excluded.
type OverwriteRange struct {
	position.Range
	// Interior is false when a multi-row region has no row strictly between
	// its first and last rows; the range is then empty and must not be written.
	Interior bool
	multiRow bool
}

// ToOverwriteRange maps region onto doc.
//
// A region on a single row is overwritten exactly. A region spanning rows
// r0..r1 is overwritten from the start of row r0+1 to the end of row r1-1.
func ToOverwriteRange(doc Document, region scanner.Region) (OverwriteRange, error) {
	length := len(doc.Text())
	if region.Start < 0 || region.End > length || region.Start > region.End {
		return OverwriteRange{}, &ConsistencyError{Region: region, Length: length, Reason: "offsets out of bounds"}
	}

	start, err := doc.PositionForOffset(region.Start)
	if err != nil {
		return OverwriteRange{}, &ConsistencyError{Region: region, Length: length, Reason: err.Error()}
	}
	end, err := doc.PositionForOffset(region.End)
	if err != nil {
		return OverwriteRange{}, &ConsistencyError{Region: region, Length: length, Reason: err.Error()}
	}

	if start.Row == end.Row {
		return OverwriteRange{
			Range:    position.Range{Start: start, End: end},
			Interior: true,
		}, nil
	}

	// end.Row >= 1 here, so end.Row-1 is always a real row
	first := position.Position{Row: start.Row + 1}
	if end.Row-start.Row < 2 {
		return OverwriteRange{
			Range:    position.Range{Start: first, End: first},
			Interior: false,
			multiRow: true,
		}, nil
	}

	last := position.Position{Row: end.Row - 1, Column: doc.LineLength(end.Row - 1)}
	return OverwriteRange{
		Range:    position.Range{Start: first, End: last},
		Interior: true,
		multiRow: true,
	}, nil
}

// SourceRange is the text handed to the engine and replaced by its output.
// For a multi-row region it covers the interior rows together with the line
// terminator of the last one, so nothing on the closing tag row is read or
// written. For a single-row region it is the region itself.
func (o OverwriteRange) SourceRange() position.Range {
	if !o.multiRow {
		return o.Range
	}
	return position.Range{Start: o.Start, End: position.Position{Row: o.End.Row + 1}}
}
