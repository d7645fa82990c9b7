package domain

// Node is one entry of the search tree built while looking for a connection.
// State is the entity identifier, Action is the relation that led here from Parent.
// The root node has neither a parent nor an action.
type Node struct {
	State  string
	Parent *Node
	Action string
}

// NewRootNode creates the node a search starts from.
func NewRootNode(state string) *Node {
	return &Node{State: state}
}

// NewNode creates a child node reached from parent through action.
func NewNode(state string, parent *Node, action string) *Node {
	return &Node{
		State:  state,
		Parent: parent,
		Action: action,
	}
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Depth returns the number of parent links between the node and the root.
func (n *Node) Depth() int {
	depth := 0
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		depth++
	}
	return depth
}
