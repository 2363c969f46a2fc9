package converter

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/docd/internal/lexer"
	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/parser"
	"github.com/gerunddev/docd/internal/renderer"
)

// Converter runs markdown through the lexer, parser and renderer. It is
// not safe for concurrent use; create one per goroutine.
type Converter struct {
	lexer    *lexer.Lexer
	parser   *parser.Parser
	renderer *renderer.Renderer
	log      *logger.Logger
}

type options struct {
	log        *logger.Logger
	tableClass string
}

// Option configures a Converter
type Option func(*options)

// WithLogger sets the logger for pipeline and parser diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithTableClass sets the class attribute of rendered tables
func WithTableClass(class string) Option {
	return func(o *options) {
		o.tableClass = class
	}
}

// NewConverter creates a new converter instance
func NewConverter(opts ...Option) *Converter {
	o := options{
		log:        logger.Discard(),
		tableClass: renderer.DefaultTableClass,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Converter{
		lexer:    lexer.New(),
		parser:   parser.New(parser.WithLogger(o.log)),
		renderer: renderer.New(renderer.WithTableClass(o.tableClass)),
		log:      o.log,
	}
}

// MarkdownToHTML converts markdown source to an HTML fragment
func (c *Converter) MarkdownToHTML(source string) string {
	start := time.Now()

	tokens := c.lexer.Tokenize(source)
	tree := c.parser.Parse(tokens)
	html := c.renderer.Render(tree)

	if c.log.GetLevel() <= log.DebugLevel {
		c.log.Rendered(len(tokens), tree.Len(), time.Since(start))
	}
	return html
}
