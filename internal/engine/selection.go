package engine

import (
	"fmt"
	"strings"
)

// Selection names one of the engines a user can choose
type Selection int

const (
	// SelectionUnknown is the zero value
	SelectionUnknown Selection = iota
	// Standard is JavaScript Standard Style through ESLint
	Standard
	// Semistandard is Standard Style with semicolons
	Semistandard
	// Prettier is the prettier formatter
	Prettier
	// Whitespace trims trailing whitespace and normalizes the final newline
	Whitespace
)

var selectionNames = []string{
	SelectionUnknown: "",
	Standard:         "standard",
	Semistandard:     "semistandard",
	Prettier:         "prettier",
	Whitespace:       "whitespace",
}

// Selections returns every valid selection
func Selections() []Selection {
	return []Selection{Standard, Semistandard, Prettier, Whitespace}
}

// SelectionNames returns the names of every valid selection
func SelectionNames() []string {
	names := make([]string, 0, len(selectionNames)-1)
	for _, s := range Selections() {
		names = append(names, s.String())
	}
	return names
}

// ParseSelection converts an engine name into a Selection
func ParseSelection(name string) (Selection, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Selections() {
		if selectionNames[s] == name {
			return s, nil
		}
	}
	return SelectionUnknown, fmt.Errorf("%w %q (expected one of: %s)", ErrUnknownEngine, name, strings.Join(SelectionNames(), ", "))
}

func (s Selection) String() string {
	if s <= SelectionUnknown || int(s) >= len(selectionNames) {
		return fmt.Sprintf("Selection(%d)", int(s))
	}
	return selectionNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s Selection) MarshalText() ([]byte, error) {
	if s <= SelectionUnknown || int(s) >= len(selectionNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEngine, int(s))
	}
	return []byte(selectionNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Selection) UnmarshalText(text []byte) error {
	parsed, err := ParseSelection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
