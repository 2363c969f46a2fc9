package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gerunddev/docd/internal/ast"
)

// An inlineRule inspects the start of src and returns the bytes consumed,
// the node produced and the text to parse into that node's children. Zero
// bytes means no match.
type inlineRule struct {
	name  string
	match func(s *inlineScan, src string) (n int, node *ast.Node, inner string)
}

// inlineGrammar is tried top to bottom. Text always matches, so it stays
// last.
var inlineGrammar = []inlineRule{
	{"strong", matchStrong},
	{"em", matchEmphasis},
	{"link", matchLink},
	{"codeSpan", matchCodeSpan},
	{"text", matchText},
}

const inlineSpecials = "*_[`"

var linkDestRe = regexp.MustCompile(`^\([ ]*<?([^\s()<>"]*)>?(?:[ ]+(?:"([^"]*)"|'([^']*)'))?[ ]*\)`)

// inlineScan is the state of one inlineParse call. Every src a rule sees
// is a suffix of text, so offsets into text identify positions across
// rules.
type inlineScan struct {
	text string

	// noCloser holds, per delimiter, the offset from which the text has no
	// closing occurrence of it
	noCloser map[string]int

	// closing maps the offset of each [ to that of its balancing ], or -1
	closing []int
}

func newInlineScan(text string) *inlineScan {
	return &inlineScan{text: text, noCloser: make(map[string]int)}
}

func (s *inlineScan) offset(src string) int {
	return len(s.text) - len(src)
}

// inlineParse appends the inline nodes of src to parent and returns parent
func inlineParse(src string, parent *ast.Node) *ast.Node {
	s := newInlineScan(src)
	for src != "" {
		for _, r := range inlineGrammar {
			n, node, inner := r.match(s, src)
			if n == 0 {
				continue
			}
			if inner != "" {
				inlineParse(inner, node)
			}
			parent.AddChild(node)
			src = src[n:]
			break
		}
	}
	return parent
}

// findCloser returns the offset of the delimiter closing the one src opens
// with, or -1. The content between them must be non-empty and the closer
// may not be followed by another marker of its kind.
func (s *inlineScan) findCloser(src, delim string) int {
	open := len(delim)
	from := s.offset(src) + open + 1
	if seen, ok := s.noCloser[delim]; ok && from >= seen {
		return -1
	}

	c := delim[0]
	for i := open + 1; i+len(delim) <= len(src); i++ {
		// emphasis content may hold a doubled marker
		if len(delim) == 1 && src[i] == c && i+1 < len(src) && src[i+1] == c {
			i++
			continue
		}
		if src[i:i+len(delim)] != delim {
			continue
		}
		if end := i + len(delim); end < len(src) && src[end] == c {
			continue
		}
		return i
	}

	// openers further on see a subset of the same candidates
	s.noCloser[delim] = from
	return -1
}

func matchStrong(s *inlineScan, src string) (int, *ast.Node, string) {
	if !strings.HasPrefix(src, "**") && !strings.HasPrefix(src, "__") {
		return 0, nil, ""
	}
	delim := src[:2]

	i := s.findCloser(src, delim)
	if i < 0 {
		return 0, nil, ""
	}
	return i + len(delim), ast.NewNode(ast.KindStrong, ""), src[len(delim):i]
}

func matchEmphasis(s *inlineScan, src string) (int, *ast.Node, string) {
	if len(src) < 3 {
		return 0, nil, ""
	}
	c := src[0]
	if c != '*' && c != '_' {
		return 0, nil, ""
	}
	// a marker right after the opener is not emphasis
	if src[1] == c {
		return 0, nil, ""
	}

	i := s.findCloser(src, src[:1])
	if i < 0 {
		return 0, nil, ""
	}
	return i + 1, ast.NewNode(ast.KindEm, ""), src[1:i]
}

// matchLink reads [text](href "title"). The link text may hold nested
// brackets and inline markup.
func matchLink(s *inlineScan, src string) (int, *ast.Node, string) {
	if src[0] != '[' {
		return 0, nil, ""
	}
	closing := s.matchingBracket(src)
	if closing < 0 {
		return 0, nil, ""
	}
	m := linkDestRe.FindStringSubmatch(src[closing+1:])
	if m == nil {
		return 0, nil, ""
	}

	href := m[1]
	if href == "" {
		href = "#"
	}
	title := m[2] + m[3]
	if title == "" {
		title = href
	}

	node := ast.NewNode(ast.KindLink, "")
	node.Href = href
	node.Title = title

	text := src[1:closing]
	if text == "" {
		node.AddChild(ast.NewText(""))
	}
	return closing + 1 + len(m[0]), node, text
}

// matchingBracket returns the offset of the ] balancing the [ at src[0],
// or -1
func (s *inlineScan) matchingBracket(src string) int {
	if s.closing == nil {
		s.closing = balanceBrackets(s.text)
	}
	off := s.offset(src)
	if end := s.closing[off]; end >= 0 {
		return end - off
	}
	return -1
}

func balanceBrackets(text string) []int {
	closing := make([]int, len(text))
	var open []int
	for i := 0; i < len(text); i++ {
		closing[i] = -1
		switch text[i] {
		case '[':
			open = append(open, i)
		case ']':
			if len(open) > 0 {
				closing[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}
	return closing
}

func matchCodeSpan(_ *inlineScan, src string) (int, *ast.Node, string) {
	if src[0] != '`' {
		return 0, nil, ""
	}
	end := strings.IndexByte(src[1:], '`')
	if end <= 0 {
		return 0, nil, ""
	}
	return end + 2, ast.NewNode(ast.KindCodeSpan, src[1:end+1]), ""
}

// matchText consumes at least one rune, so a delimiter no other rule
// accepted is kept as literal text.
func matchText(_ *inlineScan, src string) (int, *ast.Node, string) {
	_, n := utf8.DecodeRuneInString(src)
	if i := strings.IndexAny(src[n:], inlineSpecials); i >= 0 {
		n += i
	} else {
		n = len(src)
	}
	return n, ast.NewText(src[:n]), ""
}
