package lexer

// Kind identifies the type of a block-level token
type Kind int

const (
	KindUnknown Kind = iota
	KindHeading
	KindParagraph
	KindCodeBlock
	KindCodeFence
	KindHorizontalRule
	KindTable
	KindBlockquote
	KindListStart
	KindItemStart
	KindItemEnd
	KindListEnd
)

var kindNames = map[Kind]string{
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindCodeBlock:      "codeBlock",
	KindCodeFence:      "codeFence",
	KindHorizontalRule: "horizontalRule",
	KindTable:          "table",
	KindBlockquote:     "blockquote",
	KindListStart:      "list_start",
	KindItemStart:      "item_start",
	KindItemEnd:        "item_end",
	KindListEnd:        "list_end",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is one block-level unit of the source. Which fields are set
// depends on Kind:
//
//	heading          Value, Depth
//	paragraph        Value
//	codeBlock        Value
//	codeFence        Value
//	blockquote       Value
//	table            Headers, Rows
//	list_start       Ordered
//
// horizontalRule, item_start, item_end and list_end carry nothing.
type Token struct {
	Kind    Kind
	Value   string
	Depth   int
	Ordered bool
	Headers []string
	Rows    [][]string
}
