package analyzer

import (
	"github.com/jacobarthurs/pgpev/internal/plan"
)

// DefaultMaxDepth bounds plan nesting; real plans stay far below it.
const DefaultMaxDepth = 1000

// ErrPlanTooDeep is shared with the decoder, which hits its own nesting
// limit on documents far deeper than any real plan.
var ErrPlanTooDeep = plan.ErrPlanTooDeep

type Options struct {
	// MaxDepth is the deepest nesting accepted; <= 0 means DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Document is one EXPLAIN document plus the tree-wide accumulators the
// annotator fills in. Accumulators start at zero.
type Document struct {
	Explain *plan.Explain

	TotalCost   float64
	MaxRows     int64
	MaxCost     float64
	MaxDuration float64
}

func NewDocument(explain *plan.Explain) *Document {
	return &Document{Explain: explain}
}

func (d *Document) Root() *plan.PlanNode {
	return &d.Explain.Plan
}

func (d *Document) observe(node *plan.PlanNode) {
	if d.MaxRows < node.ActualRows {
		d.MaxRows = node.ActualRows
	}
	if d.MaxCost < node.ExclusiveCost {
		d.MaxCost = node.ExclusiveCost
	}
	if d.MaxDuration < node.ExclusiveDuration {
		d.MaxDuration = node.ExclusiveDuration
	}
}

// Annotated is a Document whose every node has been through Annotate, so
// the maxima are final. Only Annotate constructs it.
type Annotated struct {
	*Document
}
