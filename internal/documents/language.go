package documents

import (
	"path/filepath"
	"strings"
)

// Language identifiers, matching the LSP languageId values editors send
const (
	LanguageJavaScript      = "javascript"
	LanguageJavaScriptReact = "javascriptreact"
	LanguageTypeScript      = "typescript"
	LanguageCSS             = "css"
	LanguageSCSS            = "scss"
	LanguageLess            = "less"
	LanguageHTML            = "html"
	LanguageVue             = "vue"
	LanguageSvelte          = "svelte"
	LanguagePlainText       = "plaintext"
)

var extensionLanguages = map[string]string{
	".js":     LanguageJavaScript,
	".mjs":    LanguageJavaScript,
	".cjs":    LanguageJavaScript,
	".jsx":    LanguageJavaScriptReact,
	".ts":     LanguageTypeScript,
	".css":    LanguageCSS,
	".scss":   LanguageSCSS,
	".less":   LanguageLess,
	".html":   LanguageHTML,
	".htm":    LanguageHTML,
	".xhtml":  LanguageHTML,
	".vue":    LanguageVue,
	".svelte": LanguageSvelte,
}

// LanguageForPath guesses the language identifier of a file from its extension
func LanguageForPath(path string) string {
	if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return LanguagePlainText
}

// IsCodeLanguage reports whether documents in language are pure code,
// formatted as a whole rather than scanned for embedded blocks
func IsCodeLanguage(language string) bool {
	switch language {
	case LanguageJavaScript, LanguageJavaScriptReact, LanguageTypeScript,
		LanguageCSS, LanguageSCSS, LanguageLess:
		return true
	}
	return false
}
