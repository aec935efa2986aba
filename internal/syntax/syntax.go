// Package syntax checks that code still parses after an engine rewrote it.
package syntax

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var (
	jsLang  = sitter.NewLanguage(tree_sitter_javascript.Language())
	cssLang = sitter.NewLanguage(tree_sitter_css.Language())
)

// grammars maps language identifiers to the grammar that checks them.
// Languages without a grammar are never checked.
var grammars = map[string]*sitter.Language{
	"javascript":      jsLang,
	"javascriptreact": jsLang,
	"css":             cssLang,
}

// pools holds one parser pool per grammar
var pools = map[*sitter.Language]*sync.Pool{
	jsLang:  newPool(jsLang),
	cssLang: newPool(cssLang),
}

func newPool(lang *sitter.Language) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			if err := parser.SetLanguage(lang); err != nil {
				panic(fmt.Sprintf("failed to set language: %v", err))
			}
			return parser
		},
	}
}

// Checkable reports whether there is a grammar for language
func Checkable(language string) bool {
	_, ok := grammars[language]
	return ok
}

// Valid reports whether text parses without errors as language.
// Text in a language without a grammar is always valid.
func Valid(language, text string) bool {
	lang, ok := grammars[language]
	if !ok {
		return true
	}

	pool := pools[lang]
	parser := pool.Get().(*sitter.Parser)
	defer pool.Put(parser)
	parser.Reset()

	tree := parser.Parse([]byte(text), nil)
	if tree == nil {
		return false
	}
	defer tree.Close()
	return !tree.RootNode().HasError()
}

// Regressed reports whether an engine turned parseable input into unparseable output
func Regressed(language, before, after string) bool {
	if !Checkable(language) || before == after {
		return false
	}
	return Valid(language, before) && !Valid(language, after)
}
