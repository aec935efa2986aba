package scanner

import "fmt"

// Region is the body of an embedded <script> or <style> element, as a
// half-open byte interval [Start, End) of the scanned text. The opening and
// closing tags are outside the interval.
type Region struct {
	Start int
	End   int
	// Language is the language identifier of the embedded code,
	// e.g. "javascript", "typescript" or "css"
	Language string
}

// Shift returns the region moved by delta bytes
func (r Region) Shift(delta int) Region {
	r.Start += delta
	r.End += delta
	return r
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Language, r.Start, r.End)
}
