// Package lexer turns markdown source into a flat sequence of block-level
// tokens. Lists are encoded with start/end marker tokens; item bodies are
// tokenized recursively so lists nest to any depth.
package lexer

import "strings"

var normalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", codeIndent)

// Lexer applies the block grammar to source text. A Lexer may be reused
// but not shared between goroutines.
type Lexer struct {
	rules []rule

	// openTail is the length of the longest suffix of the text being
	// tokenized known to hold no closing fence line
	openTail int
}

// New creates a lexer over the block grammar
func New() *Lexer {
	return &Lexer{rules: grammar}
}

// Tokenize converts source into block tokens
func Tokenize(source string) []Token {
	return New().Tokenize(source)
}

// Tokenize converts source into block tokens. Line endings are normalised
// to \n and tabs expanded to four spaces first.
func (l *Lexer) Tokenize(source string) []Token {
	return l.tokenize(normalizer.Replace(source), nil)
}

// tokenize appends the tokens of src to acc. Every rule consumes at least
// one byte when it matches and the paragraph rule matches any non-blank
// input, so the loop always makes progress.
func (l *Lexer) tokenize(src string, acc []Token) []Token {
	outer := l.openTail
	l.openTail = 0
	defer func() { l.openTail = outer }()

	for src != "" {
		matched := false
		for _, r := range l.rules {
			n, out := r.match(l, src, acc)
			if n > 0 {
				src = src[n:]
				acc = out
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return acc
}
