// Package renderer walks a markdown AST depth-first and emits HTML.
package renderer

import (
	"strconv"
	"strings"

	"github.com/gerunddev/docd/internal/ast"
)

// DefaultTableClass is the class attribute given to every table
const DefaultTableClass = "table table-striped"

// escaper replaces < and > with their entities and leaves other bytes as is
var escaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Renderer converts a tree to an HTML string. It holds only options and is
// safe to share.
type Renderer struct {
	tableClass string
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTableClass overrides the class attribute of tables. An empty class
// drops the attribute.
func WithTableClass(class string) Option {
	return func(r *Renderer) {
		r.tableClass = class
	}
}

// New creates a renderer
func New(opts ...Option) *Renderer {
	r := &Renderer{tableClass: DefaultTableClass}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts tree to HTML with a default renderer
func Render(tree *ast.Tree) string {
	return New().Render(tree)
}

// Render converts tree to HTML
func (r *Renderer) Render(tree *ast.Tree) string {
	var sb strings.Builder
	r.renderNode(&sb, tree.Root)
	return sb.String()
}

func (r *Renderer) renderNode(sb *strings.Builder, n *ast.Node) {
	switch n.Kind {
	case ast.KindDocument:
		r.renderChildren(sb, n)

	case ast.KindText:
		sb.WriteString(escaper.Replace(n.Value))

	case ast.KindHeader:
		level := strconv.Itoa(n.Depth)
		r.wrap(sb, n, "<h"+level+">", "</h"+level+">\n")

	case ast.KindParagraph:
		r.wrap(sb, n, "<p>", "</p>\n")

	case ast.KindStrong:
		r.wrap(sb, n, "<strong>", "</strong>")

	case ast.KindEm:
		r.wrap(sb, n, "<em>", "</em>")

	case ast.KindLink:
		r.wrap(sb, n, `<a href="`+n.Href+`" title="`+n.Title+`">`, "</a>")

	case ast.KindCodeSpan:
		sb.WriteString("<code>" + escaper.Replace(n.Value) + "</code>")

	case ast.KindCodeBlock:
		sb.WriteString("<pre><code>" + escaper.Replace(n.Value) + "</code></pre>\n")

	case ast.KindHorizontalRule:
		sb.WriteString("<hr />\n")

	case ast.KindBlockquote:
		r.wrap(sb, n, "<blockquote>\n", "</blockquote>\n")

	case ast.KindTable:
		open := "<table>\n"
		if r.tableClass != "" {
			open = `<table class="` + r.tableClass + `">` + "\n"
		}
		r.wrap(sb, n, open, "</table>\n")

	case ast.KindTHead, ast.KindTBody, ast.KindTR, ast.KindTH, ast.KindTD:
		tag := n.Kind.String()
		r.wrap(sb, n, "<"+tag+">", "</"+tag+">\n")

	case ast.KindOrderedList:
		r.wrap(sb, n, "<ol>\n", "</ol>\n")

	case ast.KindUnorderedList:
		r.wrap(sb, n, "<ul>\n", "</ul>\n")

	case ast.KindListItem:
		r.wrap(sb, n, "<li>", "</li>\n")
	}
}

func (r *Renderer) wrap(sb *strings.Builder, n *ast.Node, open, end string) {
	sb.WriteString(open)
	r.renderChildren(sb, n)
	sb.WriteString(end)
}

func (r *Renderer) renderChildren(sb *strings.Builder, n *ast.Node) {
	for _, child := range n.Children {
		r.renderNode(sb, child)
	}
}
