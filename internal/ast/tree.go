package ast

// Tree owns the root document node of a parsed source
type Tree struct {
	Root *Node
}

// NewTree creates a tree with an empty document root
func NewTree() *Tree {
	return &Tree{Root: NewNode(KindDocument, "")}
}

// Walk visits every node pre-order: a parent before its children,
// children left to right
func (t *Tree) Walk(fn func(n *Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		fn(n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.Root)
}

// Add attaches node to parent, or to the root when parent is nil
func (t *Tree) Add(node, parent *Node) {
	if parent == nil {
		parent = t.Root
	}
	parent.AddChild(node)
}

// Len returns the number of nodes in the tree, root included
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) { count++ })
	return count
}
