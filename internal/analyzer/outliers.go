package analyzer

import "math"

const outlierTolerance = 1e-3

// ClassifyOutliers flags every node holding a tree-wide maximum. Ties are
// all flagged.
func ClassifyOutliers(a *Annotated) {
	walk(a.Root(), func(ref NodeRef) {
		node := ref.Node
		node.Costliest = math.Abs(node.ExclusiveCost-a.MaxCost) < outlierTolerance
		node.Largest = node.ActualRows == a.MaxRows
		node.Slowest = math.Abs(node.ExclusiveDuration-a.MaxDuration) < outlierTolerance
	})
}
