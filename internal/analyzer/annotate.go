package analyzer

import (
	"fmt"

	"github.com/jacobarthurs/pgpev/internal/plan"
)

// Annotate converts every node's cumulative cost and time into exclusive
// figures and accumulates the document totals and maxima, parent before
// children, siblings left to right.
//
// Annotate is not idempotent: a second call over the same document adds
// every exclusive cost to TotalCost again.
func Annotate(doc *Document, opts Options) (*Annotated, error) {
	root := doc.Root()
	if depth, limit := Depth(root), opts.maxDepth(); depth > limit {
		return nil, fmt.Errorf("%w: plan nests %d levels, limit is %d", ErrPlanTooDeep, depth, limit)
	}

	walk(root, func(ref NodeRef) {
		annotateNode(doc, ref.Node)
	})

	return &Annotated{Document: doc}, nil
}

func annotateNode(doc *Document, node *plan.PlanNode) {
	node.EstimateFactor, node.EstimateDirection = EstimateRows(node.PlanRows, node.ActualRows)

	node.ExclusiveDuration = node.ActualTotalTime
	node.ExclusiveCost = node.TotalCost

	// CTE Scan costs are materialized separately and are not part of the
	// parent's cumulative figures.
	for i := range node.Plans {
		child := &node.Plans[i]
		if child.NodeType == plan.CTEScan {
			continue
		}
		node.ExclusiveDuration -= child.ActualTotalTime
		node.ExclusiveCost -= child.TotalCost
	}

	if node.ExclusiveCost < 0 {
		node.ExclusiveCost = 0
	}
	if node.ExclusiveDuration < 0 {
		node.ExclusiveDuration = 0
	}

	doc.TotalCost += node.ExclusiveCost

	// Actual Total Time is a per-loop average.
	node.ExclusiveDuration *= float64(node.ActualLoops)

	doc.observe(node)
}
