package cst

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node, depth int) error

// Walk performs a pre-order traversal of every node in the tree.
// Top-level nodes have depth 0.
func Walk(t *Tree, fn WalkFunc) error {
	return walkList(&t.Root, 0, fn)
}

func walkList(l *NodeList, depth int, fn WalkFunc) error {
	for _, n := range l.nodes {
		if err := fn(n, depth); err != nil {
			return err
		}
		if inner, ok := n.List(); ok {
			if err := walkList(&inner.Items, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// WalkMetadata calls fn with a pointer to every piece of trivia in source
// order, including trivia held by empty lists. fn may rewrite the text in
// place.
func WalkMetadata(t *Tree, fn func(m *Metadata)) {
	walkListMetadata(&t.Root, fn)
}

func walkListMetadata(l *NodeList, fn func(m *Metadata)) {
	for i := range l.trivia {
		fn(&l.trivia[i])
	}
	for _, n := range l.nodes {
		for i := range n.Pre {
			fn(&n.Pre[i])
		}
		if inner, ok := n.List(); ok {
			walkListMetadata(&inner.Items, fn)
		}
		for i := range n.Post {
			fn(&n.Post[i])
		}
	}
}
