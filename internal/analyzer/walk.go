package analyzer

import "github.com/jacobarthurs/pgpev/internal/plan"

type NodeRef struct {
	Node   *plan.PlanNode
	Parent *plan.PlanNode
	Depth  int
}

// walk visits the tree in pre-order, siblings left to right, using an
// explicit stack so that nesting depth does not grow the call stack.
func walk(root *plan.PlanNode, visit func(ref NodeRef)) {
	stack := []NodeRef{{Node: root}}
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visit(ref)

		for i := len(ref.Node.Plans) - 1; i >= 0; i-- {
			stack = append(stack, NodeRef{
				Node:   &ref.Node.Plans[i],
				Parent: ref.Node,
				Depth:  ref.Depth + 1,
			})
		}
	}
}

// CollectNodes flattens the tree in pre-order.
func CollectNodes(root *plan.PlanNode) []NodeRef {
	var refs []NodeRef
	walk(root, func(ref NodeRef) {
		refs = append(refs, ref)
	})
	return refs
}

// Depth returns the number of levels below the root (0 for a leaf).
func Depth(root *plan.PlanNode) int {
	deepest := 0
	walk(root, func(ref NodeRef) {
		if ref.Depth > deepest {
			deepest = ref.Depth
		}
	})
	return deepest
}
