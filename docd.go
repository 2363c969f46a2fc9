// Package docd converts a restricted markdown dialect to HTML.
//
// Source text passes through three stages: a block lexer producing a flat
// token sequence, a recursive-descent parser building an AST, and a
// renderer walking the tree into an HTML string. Malformed input is never
// rejected; unrecognised blocks fall back to paragraphs and unrecognised
// inline markup to literal text.
package docd

import "github.com/gerunddev/docd/internal/converter"

// Render converts markdown source to an HTML fragment. It is safe for
// concurrent use; every call runs on its own pipeline.
func Render(source string) string {
	return converter.NewConverter().MarkdownToHTML(source)
}
