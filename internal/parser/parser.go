// Package parser builds an AST from the block tokens produced by the lexer.
// Block tokens are dispatched one at a time; the text of headings,
// paragraphs, blockquotes and table cells is handed to the inline grammar.
package parser

import (
	"github.com/gerunddev/docd/internal/ast"
	"github.com/gerunddev/docd/internal/lexer"
	"github.com/gerunddev/docd/internal/logger"
)

// Parser is a cursor over a token sequence. It is not safe for concurrent
// use but may be reused: every Parse call starts from a fresh cursor and
// tree.
type Parser struct {
	tokens []lexer.Token
	index  int
	tree   *ast.Tree
	log    *logger.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used to report ignored tokens
func WithLogger(l *logger.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// New creates a parser
func New(opts ...Option) *Parser {
	p := &Parser{log: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds a tree from tokens with a default parser
func Parse(tokens []lexer.Token) *ast.Tree {
	return New().Parse(tokens)
}

// Parse builds a tree from tokens. Every block becomes a child of the
// document root in source order.
func (p *Parser) Parse(tokens []lexer.Token) *ast.Tree {
	p.tokens = tokens
	p.index = 0
	p.tree = ast.NewTree()

	for {
		tok, ok := p.Next()
		if !ok {
			break
		}
		if node := p.parseToken(tok); node != nil {
			p.tree.Add(node, nil)
		}
	}
	return p.tree
}

// Next returns the token at the cursor and advances past it
func (p *Parser) Next() (lexer.Token, bool) {
	if p.index >= len(p.tokens) {
		return lexer.Token{}, false
	}
	tok := p.tokens[p.index]
	p.index++
	return tok, true
}

// Peek returns the token at the cursor without advancing
func (p *Parser) Peek() (lexer.Token, bool) {
	if p.index >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.index], true
}

// parseToken turns one block token, plus any tokens it brackets, into a
// node. Tokens with no meaning at this position yield nil.
func (p *Parser) parseToken(tok lexer.Token) *ast.Node {
	switch tok.Kind {
	case lexer.KindHeading:
		node := ast.NewNode(ast.KindHeader, "")
		node.Depth = tok.Depth
		return inlineParse(tok.Value, node)

	case lexer.KindParagraph:
		return block(ast.KindParagraph, tok.Value)

	case lexer.KindCodeBlock, lexer.KindCodeFence:
		return ast.NewNode(ast.KindCodeBlock, tok.Value)

	case lexer.KindHorizontalRule:
		return ast.NewNode(ast.KindHorizontalRule, "")

	case lexer.KindBlockquote:
		node := ast.NewNode(ast.KindBlockquote, "")
		if tok.Value == "" {
			node.AddChild(ast.NewText(""))
		} else {
			node.AddChild(block(ast.KindParagraph, tok.Value))
		}
		return node

	case lexer.KindTable:
		return parseTable(tok)

	case lexer.KindListStart, lexer.KindItemStart:
		return p.parseList(tok)
	}

	p.log.TokenIgnored(tok.Kind.String(), p.index-1)
	return nil
}

// parseList pulls tokens into a list or list item until the matching end
// marker. A stream that ends early closes everything still open.
func (p *Parser) parseList(tok lexer.Token) *ast.Node {
	var node *ast.Node
	end := lexer.KindListEnd
	switch {
	case tok.Kind == lexer.KindItemStart:
		node = ast.NewNode(ast.KindListItem, "")
		end = lexer.KindItemEnd
	case tok.Ordered:
		node = ast.NewNode(ast.KindOrderedList, "")
	default:
		node = ast.NewNode(ast.KindUnorderedList, "")
	}

	for {
		next, ok := p.Next()
		if !ok || next.Kind == end {
			break
		}
		if child := p.parseToken(next); child != nil {
			node.AddChild(child)
		}
	}
	return node
}

func parseTable(tok lexer.Token) *ast.Node {
	table := ast.NewNode(ast.KindTable, "")

	head := ast.NewNode(ast.KindTHead, "")
	for _, cell := range tok.Headers {
		head.AddChild(block(ast.KindTH, cell))
	}

	body := ast.NewNode(ast.KindTBody, "")
	for _, row := range tok.Rows {
		tr := ast.NewNode(ast.KindTR, "")
		for _, cell := range row {
			tr.AddChild(block(ast.KindTD, cell))
		}
		body.AddChild(tr)
	}

	table.AddChild(head)
	table.AddChild(body)
	return table
}

// block creates a container for inline text. Empty text still gets a single
// empty text child so the container renders its tags.
func block(kind ast.Kind, value string) *ast.Node {
	node := ast.NewNode(kind, "")
	if value == "" {
		node.AddChild(ast.NewText(""))
		return node
	}
	return inlineParse(value, node)
}
