// Package tree provides the ordered n-ary tree shared by plans and
// executable specs.
//
// Child order is declaration order. Builders attach children while a tree
// is being assembled; once a builder hands the root out, the tree is
// treated as read-only by every consumer.
package tree

// Node is one node of an ordered tree carrying a Value payload.
type Node[T any] struct {
	Value    T
	parent   *Node[T]
	children []*Node[T]
}

// New creates a detached node holding value.
func New[T any](value T) *Node[T] {
	return &Node[T]{Value: value}
}

// Attach appends child as the last child of n.
//
// Panics if child already has a parent. A node belongs to exactly one tree.
func (n *Node[T]) Attach(child *Node[T]) {
	if child.parent != nil {
		panic("tree: node already attached")
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Children returns the children of n in declaration order.
// The returned slice must not be modified.
func (n *Node[T]) Children() []*Node[T] {
	return n.children
}

// Parent returns the parent of n, or nil for a root.
func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// Ancestry returns the chain from the root down to n, inclusive.
func (n *Node[T]) Ancestry() []*Node[T] {
	depth := 0
	for cur := n; cur != nil; cur = cur.parent {
		depth++
	}
	chain := make([]*Node[T], depth)
	for cur := n; cur != nil; cur = cur.parent {
		depth--
		chain[depth] = cur
	}
	return chain
}

// Walk visits n and its descendants depth-first, parents before children,
// children in declaration order. Returning false from visit prunes the
// subtree below the visited node.
func (n *Node[T]) Walk(visit func(node *Node[T], depth int) bool) {
	n.walk(visit, 0)
}

func (n *Node[T]) walk(visit func(node *Node[T], depth int) bool, depth int) {
	if !visit(n, depth) {
		return
	}
	for _, child := range n.children {
		child.walk(visit, depth+1)
	}
}

// Map builds a new tree with the same shape as n, converting each payload
// with fn. Children are converted before their parent so fn may rely on
// already-converted children.
func Map[T, U any](n *Node[T], fn func(value T, children []*Node[U]) U) *Node[U] {
	converted := make([]*Node[U], 0, len(n.children))
	for _, child := range n.children {
		converted = append(converted, Map(child, fn))
	}
	out := New(fn(n.Value, converted))
	for _, child := range converted {
		out.Attach(child)
	}
	return out
}

// Size returns the number of nodes in the tree rooted at n.
func (n *Node[T]) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}
