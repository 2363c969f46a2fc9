package lexer

import (
	"regexp"
	"strings"
)

// A rule inspects the start of src and returns how many bytes it consumed
// together with acc extended by the tokens it emitted. Zero means no match.
type rule struct {
	name  string
	match func(l *Lexer, src string, acc []Token) (int, []Token)
}

// grammar is tried top to bottom, first match wins. The paragraph rule
// matches any non-blank line so it must stay last.
var grammar = []rule{
	{"blank", matchBlank},
	{"codeBlock", matchCodeBlock},
	{"codeFence", matchCodeFence},
	{"horizontalRule", matchHorizontalRule},
	{"heading", matchHeading},
	{"list", matchList},
	{"table", matchTable},
	{"blockquote", matchBlockquote},
	{"paragraph", matchParagraph},
}

var (
	hrRe          = regexp.MustCompile(`^ {0,3}(?:(?:-[ ]*){3,}|(?:\*[ ]*){3,}|(?:_[ ]*){3,})$`)
	headingRe     = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	closingHashRe = regexp.MustCompile(`[ ]+#+[ ]*$`)
	markerRe      = regexp.MustCompile(`^( *)([*+-]|\d{1,9}\.)(?: |$)`)
	separatorRe   = regexp.MustCompile(`^[ ]*\|?[ ]*:?-+:?[ ]*(?:\|[ ]*:?-+:?[ ]*)*\|?[ ]*$`)
	quoteRe       = regexp.MustCompile(`^ {0,3}> ?`)
)

const (
	codeIndent = "    "
	fenceMark  = "```"
)

// splitLine returns the first line of src without its newline and the
// number of bytes the line spans, newline included.
func splitLine(src string) (string, int) {
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[:i], i + 1
	}
	return src, len(src)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func isOrdered(marker string) bool {
	return marker[0] >= '0' && marker[0] <= '9'
}

// listMarker reports the indentation and marker of a list item line
func listMarker(line string) (indent int, marker string, ok bool) {
	m := markerRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

func matchBlank(_ *Lexer, src string, acc []Token) (int, []Token) {
	pos := 0
	for pos < len(src) {
		line, n := splitLine(src[pos:])
		if !isBlank(line) {
			break
		}
		pos += n
	}
	return pos, acc
}

func matchCodeBlock(_ *Lexer, src string, acc []Token) (int, []Token) {
	var lines []string
	pos := 0
	for pos < len(src) {
		line, n := splitLine(src[pos:])
		if !strings.HasPrefix(line, codeIndent) {
			break
		}
		lines = append(lines, line[len(codeIndent):])
		pos += n
	}
	if pos == 0 {
		return 0, acc
	}
	value := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return pos, append(acc, Token{Kind: KindCodeBlock, Value: value})
}

func matchCodeFence(l *Lexer, src string, acc []Token) (int, []Token) {
	value, n, ok := l.fence(src)
	if !ok {
		return 0, acc
	}
	return n, append(acc, Token{Kind: KindCodeFence, Value: value})
}

// fence matches a fenced code block at the start of src. The opening line
// is ``` plus an optional info string without backticks; the block runs to
// the next line holding only ``` and trailing spaces.
func (l *Lexer) fence(src string) (value string, n int, ok bool) {
	first, open := splitLine(src)
	if !strings.HasPrefix(first, fenceMark) || strings.Contains(first[len(fenceMark):], "`") || open == len(first) {
		return "", 0, false
	}

	rest := src[open:]
	limit := len(rest) - l.openTail
	for pos := 0; pos < limit; {
		line, n := splitLine(rest[pos:])
		if isClosingFence(line) {
			return strings.TrimSuffix(rest[:pos], "\n"), open + pos + n, true
		}
		pos += n
	}
	l.openTail = max(l.openTail, len(rest))
	return "", 0, false
}

func isClosingFence(line string) bool {
	return strings.HasPrefix(line, fenceMark) && strings.TrimRight(line[len(fenceMark):], " ") == ""
}

func matchHorizontalRule(_ *Lexer, src string, acc []Token) (int, []Token) {
	line, n := splitLine(src)
	if !hrRe.MatchString(line) {
		return 0, acc
	}
	return n, append(acc, Token{Kind: KindHorizontalRule})
}

func matchHeading(_ *Lexer, src string, acc []Token) (int, []Token) {
	line, n := splitLine(src)
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, acc
	}
	value := strings.TrimSpace(m[2])
	if loc := closingHashRe.FindStringIndex(value); loc != nil {
		value = strings.TrimSpace(value[:loc[0]])
	}
	return n, append(acc, Token{Kind: KindHeading, Value: value, Depth: len(m[1])})
}

// matchList consumes a run of list items. Item boundaries are marker lines
// indented no deeper than the first item; everything else belongs to the
// current item and is re-tokenized as the item body.
func matchList(l *Lexer, src string, acc []Token) (int, []Token) {
	first, _ := splitLine(src)
	base, marker, ok := listMarker(first)
	if !ok || base > 3 {
		return 0, acc
	}
	ordered := isOrdered(marker)

	var items [][]string
	var current []string
	pos, end := 0, 0
	for pos < len(src) {
		line, n := splitLine(src[pos:])

		if isBlank(line) {
			next := nextNonBlank(src, pos)
			if next < 0 {
				break
			}
			nextLine, _ := splitLine(src[next:])
			if !continuesList(nextLine, base, ordered) {
				break
			}
			for pos < next {
				_, n = splitLine(src[pos:])
				current = append(current, "")
				pos += n
			}
			continue
		}

		if pos > 0 && l.endsList(src[pos:], line, base) {
			break
		}

		if indent, m, ok := listMarker(line); ok && indent <= base {
			if pos > 0 && isOrdered(m) != ordered {
				break
			}
			if current != nil {
				items = append(items, current)
			}
			current = []string{line}
		} else {
			current = append(current, line)
		}
		pos += n
		end = pos
	}
	items = append(items, current)

	acc = append(acc, Token{Kind: KindListStart, Ordered: ordered})
	for _, item := range items {
		body := itemBody(item)
		acc = append(acc, Token{Kind: KindItemStart})
		if isBlank(body) {
			acc = append(acc, Token{Kind: KindParagraph})
		} else {
			acc = l.tokenize(body, acc)
		}
		acc = append(acc, Token{Kind: KindItemEnd})
	}
	acc = append(acc, Token{Kind: KindListEnd})

	return end, acc
}

// nextNonBlank returns the offset of the first non-blank line at or after
// pos, or -1 when only blank lines remain
func nextNonBlank(src string, pos int) int {
	for pos < len(src) {
		line, n := splitLine(src[pos:])
		if !isBlank(line) {
			return pos
		}
		pos += n
	}
	return -1
}

// continuesList decides whether a list survives a blank line
func continuesList(line string, base int, ordered bool) bool {
	if indentOf(line) > base {
		return true
	}
	_, marker, ok := listMarker(line)
	return ok && isOrdered(marker) == ordered
}

func (l *Lexer) endsList(rest, line string, base int) bool {
	if indentOf(line) > base {
		return false
	}
	if hrRe.MatchString(line) || headingRe.MatchString(line) {
		return true
	}
	_, _, ok := l.fence(rest)
	return ok
}

// itemBody strips the marker from the first line and up to the marker
// width of indentation from every following line, so nested lists keep
// their relative indentation and are not read as code blocks.
func itemBody(lines []string) string {
	m := markerRe.FindString(lines[0])
	width := len(m)
	if !strings.HasSuffix(m, " ") {
		width++
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[0][len(m):])
	for _, line := range lines[1:] {
		out = append(out, line[min(indentOf(line), width):])
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n ")
}

func matchTable(_ *Lexer, src string, acc []Token) (int, []Token) {
	header, pos := splitLine(src)
	if !strings.Contains(header, "|") {
		return 0, acc
	}
	sep, n := splitLine(src[pos:])
	if !separatorRe.MatchString(sep) {
		return 0, acc
	}
	pos += n

	var rows [][]string
	for pos < len(src) {
		line, n := splitLine(src[pos:])
		if isBlank(line) || !strings.Contains(line, "|") {
			break
		}
		rows = append(rows, splitRow(line))
		pos += n
	}
	if len(rows) == 0 {
		return 0, acc
	}

	return pos, append(acc, Token{Kind: KindTable, Headers: splitRow(header), Rows: rows})
}

// splitRow drops one outer pipe on each side and trims every cell
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")

	cells := strings.Split(row, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func matchBlockquote(_ *Lexer, src string, acc []Token) (int, []Token) {
	var lines []string
	pos := 0
	for pos < len(src) {
		line, n := splitLine(src[pos:])
		prefix := quoteRe.FindString(line)
		if prefix == "" {
			break
		}
		lines = append(lines, line[len(prefix):])
		pos += n
	}
	if pos == 0 {
		return 0, acc
	}
	value := strings.TrimSpace(strings.Join(lines, "\n"))
	return pos, append(acc, Token{Kind: KindBlockquote, Value: value})
}

// matchParagraph takes the first line unconditionally, then every line up
// to a blank line (consumed) or the start of another block.
func matchParagraph(l *Lexer, src string, acc []Token) (int, []Token) {
	first, pos := splitLine(src)
	lines := []string{strings.TrimSpace(first)}

	for pos < len(src) {
		line, n := splitLine(src[pos:])
		if isBlank(line) {
			pos += n
			break
		}
		if l.interruptsParagraph(src[pos:], line) {
			break
		}
		lines = append(lines, strings.TrimSpace(line))
		pos += n
	}

	return pos, append(acc, Token{Kind: KindParagraph, Value: strings.Join(lines, "\n")})
}

func (l *Lexer) interruptsParagraph(rest, line string) bool {
	if strings.HasPrefix(line, codeIndent) {
		return true
	}
	if hrRe.MatchString(line) || headingRe.MatchString(line) || quoteRe.MatchString(line) {
		return true
	}
	if indent, _, ok := listMarker(line); ok && indent <= 3 {
		return true
	}
	if _, _, ok := l.fence(rest); ok {
		return true
	}
	n, _ := matchTable(nil, rest, nil)
	return n > 0
}
