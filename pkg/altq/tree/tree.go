package tree

import (
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

const noParent = -1

// Node is a queue in a Tree. it holds a copy of the queue spec it was inserted with.
type Node struct {
	Spec types.QueueSpec

	idx      int
	parent   int
	children []int
}

// Tree is a queue hierarchy built from a flat list of queue specs for display and validation.
// Nodes live in an arena and reference each other by index; the first inserted node is the root
// and parentless nodes after it become its siblings.
type Tree struct {
	nodes []*Node
	// top is the root node followed by its siblings in insertion order
	top []int
}

// New creates an empty Tree
func New() *Tree {
	return &Tree{
		nodes: make([]*Node, 0),
		top:   make([]int, 0),
	}
}

// Build creates a Tree from specs. interface entries are inserted first; queues whose parent has
// not been inserted yet are retried until no more progress can be made.
func Build(specs []*types.QueueSpec) (*Tree, error) {
	t := New()

	pending := make([]*types.QueueSpec, 0, len(specs))
	for _, s := range specs {
		if s.IsInterface() {
			if err := t.Insert(s); err != nil {
				return nil, err
			}
			continue
		}
		pending = append(pending, s)
	}

	for len(pending) > 0 {
		var deferred []*types.QueueSpec
		var lastErr error
		for _, s := range pending {
			err := t.Insert(s)
			if err == nil {
				continue
			}
			if qerr, ok := err.(*types.QueueError); ok && qerr.Kind == types.ErrorKindParentNotFound {
				deferred = append(deferred, s)
				if lastErr == nil {
					lastErr = err
				}
				continue
			}
			return nil, err
		}
		if len(deferred) == len(pending) {
			return nil, lastErr
		}
		pending = deferred
	}
	return t, nil
}

// Insert adds a copy of spec to the tree. a spec with a parent becomes the last child of the node
// with the same interface whose queue name equals the parent name. Insert fails with
// ParentNotFound if there is no such node.
func (t *Tree) Insert(spec *types.QueueSpec) error {
	n := &Node{Spec: *spec, idx: len(t.nodes), parent: noParent}

	if len(t.nodes) == 0 || !spec.HasParent() {
		t.nodes = append(t.nodes, n)
		t.top = append(t.top, n.idx)
		return nil
	}

	parent := t.FindOn(spec.InterfaceName, spec.ParentName)
	if parent == nil {
		return types.NewQueueError(types.ErrorKindParentNotFound, spec.InterfaceName, spec.QueueName,
			"parent %s not found", spec.ParentName)
	}
	n.parent = parent.idx
	t.nodes = append(t.nodes, n)
	parent.children = append(parent.children, n.idx)
	return nil
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the first inserted node, nil if the tree is empty
func (t *Tree) Root() *Node {
	if len(t.top) == 0 {
		return nil
	}
	return t.nodes[t.top[0]]
}

// Find returns the first node in preorder whose queue name is qName
func (t *Tree) Find(qName string) *Node {
	return t.find(func(n *Node) bool { return n.Spec.QueueName == qName })
}

// FindOn returns the node for queue qName on interface ifName
func (t *Tree) FindOn(ifName, qName string) *Node {
	return t.find(func(n *Node) bool {
		return n.Spec.QueueName == qName && n.Spec.InterfaceName == ifName
	})
}

// Parent returns the parent of n, nil for top level nodes
func (t *Tree) Parent(n *Node) *Node {
	if n.parent == noParent {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the children of n in insertion order
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, t.nodes[c])
	}
	return out
}

// Walk visits every node in preorder, passing its depth (top level nodes have depth 0).
// returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	type entry struct {
		idx   int
		depth int
	}

	stack := make([]entry, 0, len(t.nodes))
	for i := len(t.top) - 1; i >= 0; i-- {
		stack = append(stack, entry{idx: t.top[i]})
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[e.idx]
		if !fn(n, e.depth) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, entry{idx: n.children[i], depth: e.depth + 1})
		}
	}
}

// find returns the first node in preorder that satisfies match
func (t *Tree) find(match func(n *Node) bool) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
