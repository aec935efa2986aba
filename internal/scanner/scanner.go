// Package scanner finds embedded script and style blocks in markup.
package scanner

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/embedfmt/internal/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Scanner locates embedded code regions in HTML-like documents
type Scanner struct {
	parser     *sitter.Parser
	blockQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// scannerPool is a pool of reusable HTML scanners
var scannerPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		blockQuery, qerr := sitter.NewQuery(htmlLang, `[(script_element) (style_element)] @block`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile block query: %v", qerr))
		}

		return &Scanner{
			parser:     parser,
			blockQuery: blockQuery,
		}
	},
}

// AcquireScanner gets a scanner from the pool
func AcquireScanner() *Scanner {
	s := scannerPool.Get().(*Scanner)
	s.parser.Reset()
	return s
}

// ReleaseScanner returns a scanner to the pool
func ReleaseScanner(s *Scanner) {
	if s != nil {
		scannerPool.Put(s)
	}
}

// Close releases the scanner's tree-sitter resources
func (s *Scanner) Close() {
	if s.parser != nil {
		s.parser.Close()
	}
	if s.blockQuery != nil {
		s.blockQuery.Close()
	}
}

// Scan returns the embedded code regions of text in document order.
// The sequence parses lazily on each iteration, so it can be ranged over
// more than once; a pooled scanner is held only while iterating.
func Scan(text string) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		s := AcquireScanner()
		defer ReleaseScanner(s)
		for _, r := range s.Regions(text) {
			if !yield(r) {
				return
			}
		}
	}
}

// Regions returns the embedded code regions of text, ordered by start offset.
// Elements that are unterminated, empty, or declare a non-code type are skipped.
func (s *Scanner) Regions(text string) []Region {
	source := []byte(text)
	tree := s.parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var regions []Region
	matches := cursor.Matches(s.blockQuery, tree.RootNode(), source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			if region, ok := blockRegion(&capture.Node, source); ok {
				regions = append(regions, region)
			}
		}
	}

	slices.SortFunc(regions, func(a, b Region) int { return a.Start - b.Start })
	return dropOverlaps(regions)
}

// blockRegion converts a script_element or style_element node into a Region
func blockRegion(node *sitter.Node, source []byte) (Region, bool) {
	var startTag, body, endTag *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "start_tag":
			startTag = child
		case "raw_text":
			body = child
		case "end_tag":
			endTag = child
		}
	}

	at := node.StartPosition()
	if endTag == nil || endTag.IsMissing() || endTag.StartByte() == endTag.EndByte() || node.HasError() {
		log.Debug("Skipping unterminated <%s> at %d:%d", node.Kind(), at.Row+1, at.Column+1)
		return Region{}, false
	}
	if body == nil || body.StartByte() == body.EndByte() {
		return Region{}, false
	}

	attrs := map[string]string{}
	if startTag != nil {
		attrs = attributes(startTag, source)
	}

	var language string
	if node.Kind() == "script_element" {
		language = scriptLanguage(attrs)
	} else {
		language = styleLanguage(attrs)
	}
	if language == "" {
		log.Debug("Skipping <%s> with type=%q lang=%q at %d:%d", node.Kind(), attrs["type"], attrs["lang"], at.Row+1, at.Column+1)
		return Region{}, false
	}

	return Region{
		Start:    int(body.StartByte()), //nolint:gosec // G115: byte offsets are bounded by document size
		End:      int(body.EndByte()),   //nolint:gosec // G115: byte offsets are bounded by document size
		Language: language,
	}, true
}

// attributes collects the attributes of a start_tag, lower-casing names
func attributes(startTag *sitter.Node, source []byte) map[string]string {
	attrs := map[string]string{}
	for i := uint(0); i < startTag.ChildCount(); i++ {
		attr := startTag.Child(i)
		if attr.Kind() != "attribute" {
			continue
		}
		var name, value string
		for j := uint(0); j < attr.ChildCount(); j++ {
			part := attr.Child(j)
			switch part.Kind() {
			case "attribute_name":
				name = strings.ToLower(part.Utf8Text(source))
			case "attribute_value":
				value = part.Utf8Text(source)
			case "quoted_attribute_value":
				value = strings.Trim(part.Utf8Text(source), `"'`)
			}
		}
		if name != "" {
			attrs[name] = strings.TrimSpace(value)
		}
	}
	return attrs
}

// scriptLanguage decides the language of a <script> body, or "" if it is not code
func scriptLanguage(attrs map[string]string) string {
	switch strings.ToLower(attrs["type"]) {
	case "", "module", "text/javascript", "application/javascript", "text/ecmascript", "application/ecmascript", "text/babel", "text/jsx":
	default:
		return ""
	}
	switch strings.ToLower(attrs["lang"]) {
	case "", "js", "javascript":
		return "javascript"
	case "jsx":
		return "javascriptreact"
	case "ts", "tsx", "typescript":
		return "typescript"
	}
	return ""
}

// styleLanguage decides the language of a <style> body, or "" if it is not CSS-like
func styleLanguage(attrs map[string]string) string {
	switch strings.ToLower(attrs["type"]) {
	case "", "text/css":
	default:
		return ""
	}
	switch strings.ToLower(attrs["lang"]) {
	case "", "css":
		return "css"
	case "scss":
		return "scss"
	case "less":
		return "less"
	}
	return ""
}

// dropOverlaps removes regions that start before the previous one ended
func dropOverlaps(regions []Region) []Region {
	out := regions[:0]
	for _, r := range regions {
		if len(out) > 0 && r.Start < out[len(out)-1].End {
			log.Debug("Skipping overlapping region %s", r)
			continue
		}
		out = append(out, r)
	}
	return out
}
