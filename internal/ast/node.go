package ast

// Kind identifies the type of a node in the markdown AST
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindText
	KindHeader
	KindParagraph
	KindStrong
	KindEm
	KindLink
	KindCodeSpan
	KindCodeBlock
	KindHorizontalRule
	KindBlockquote
	KindTable
	KindTHead
	KindTBody
	KindTR
	KindTH
	KindTD
	KindOrderedList
	KindUnorderedList
	KindListItem
)

var kindNames = map[Kind]string{
	KindDocument:       "document",
	KindText:           "text",
	KindHeader:         "header",
	KindParagraph:      "paragraph",
	KindStrong:         "strong",
	KindEm:             "em",
	KindLink:           "link",
	KindCodeSpan:       "codeSpan",
	KindCodeBlock:      "codeBlock",
	KindHorizontalRule: "horizontal rule",
	KindBlockquote:     "blockquote",
	KindTable:          "table",
	KindTHead:          "thead",
	KindTBody:          "tbody",
	KindTR:             "tr",
	KindTH:             "th",
	KindTD:             "td",
	KindOrderedList:    "ordered list",
	KindUnorderedList:  "unordered list",
	KindListItem:       "list item",
}

// String returns the tag name of the kind, e.g. "list item"
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node represents a node in the markdown AST
type Node struct {
	Kind  Kind
	Value string
	Depth int // headers only

	// links only
	Href  string
	Title string

	Children []*Node

	// parent is informational; structure is never built from it
	parent *Node
}

// NewNode creates a childless node of the given kind
func NewNode(kind Kind, value string) *Node {
	return &Node{Kind: kind, Value: value}
}

// NewText creates a text leaf
func NewText(value string) *Node {
	return NewNode(KindText, value)
}

// Parent returns the node this node was added to, or nil
func (n *Node) Parent() *Node {
	return n.parent
}

// HasChildren reports whether the node has any children
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// AddChild appends child and points its parent at n
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}
