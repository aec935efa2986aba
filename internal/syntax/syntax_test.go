package syntax_test

import (
	"testing"

	"bennypowers.dev/embedfmt/internal/syntax"
	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		language string
		text     string
		want     bool
	}{
		{name: "javascript", language: "javascript", text: "var x = 1\nfunction f () { return x }\n", want: true},
		{name: "broken javascript", language: "javascript", text: "var x = = 1\nfunction f ( {", want: false},
		{name: "jsx", language: "javascriptreact", text: "const a = <div className='x'>hi</div>\n", want: true},
		{name: "css", language: "css", text: ".a { color: red; }\n", want: true},
		{name: "broken css", language: "css", text: ".a { color: red; ", want: false},
		{name: "empty", language: "javascript", text: "", want: true},
		{name: "language without grammar", language: "typescript", text: "let a: = ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, syntax.Valid(tt.language, tt.text))
		})
	}
}

func TestRegressed(t *testing.T) {
	assert.True(t, syntax.Regressed("javascript", "var x = 1\n", "var x = = 1\n"))
	assert.False(t, syntax.Regressed("javascript", "var x=1\n", "var x = 1\n"))
	assert.False(t, syntax.Regressed("javascript", "var x = = 1\n", "var x = = = 1\n"), "already broken input cannot regress")
	assert.False(t, syntax.Regressed("scss", "a { b {} }", "a { b {"), "no grammar, no check")
	assert.True(t, syntax.Checkable("css"))
	assert.False(t, syntax.Checkable("less"))
}
