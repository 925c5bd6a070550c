package analyzer

import (
	"github.com/jacobarthurs/pgpev/internal/plan"
)

type Buffers struct {
	Hit     int64
	Read    int64
	Dirtied int64
	Written int64
}

func (b Buffers) Any() bool {
	return b.Hit > 0 || b.Read > 0 || b.Dirtied > 0 || b.Written > 0
}

// Stats summarizes an annotated document for the statistics report.
type Stats struct {
	PlanningTime  float64
	ExecutionTime float64
	TotalTime     float64
	IOReadTime    float64
	IOWriteTime   float64

	// Buffer counters are cumulative in EXPLAIN output, so the root's
	// values cover the whole tree.
	Shared Buffers
	Local  Buffers
	Temp   Buffers

	NodeCount int
	MaxDepth  int
	SeqScans  int

	TotalCost float64
	Slowest   []string
	Costliest []string
	Largest   []string
}

func Summarize(a *Annotated) Stats {
	root := a.Root()
	stats := Stats{
		PlanningTime:  a.Explain.PlanningTime,
		ExecutionTime: a.Explain.ExecutionTime,
		TotalTime:     a.Explain.PlanningTime + a.Explain.ExecutionTime,
		IOReadTime:    root.IOReadTime,
		IOWriteTime:   root.IOWriteTime,
		Shared: Buffers{
			Hit:     root.SharedHitBlocks,
			Read:    root.SharedReadBlocks,
			Dirtied: root.SharedDirtiedBlocks,
			Written: root.SharedWrittenBlocks,
		},
		Local: Buffers{
			Hit:     root.LocalHitBlocks,
			Read:    root.LocalReadBlocks,
			Dirtied: root.LocalDirtiedBlocks,
			Written: root.LocalWrittenBlocks,
		},
		Temp: Buffers{
			Read:    root.TempReadBlocks,
			Written: root.TempWrittenBlocks,
		},
		TotalCost: a.TotalCost,
	}

	for _, ref := range CollectNodes(root) {
		node := ref.Node
		stats.NodeCount++
		if ref.Depth > stats.MaxDepth {
			stats.MaxDepth = ref.Depth
		}
		if node.NodeType == plan.SequenceScan {
			stats.SeqScans++
		}
		if node.Slowest {
			stats.Slowest = append(stats.Slowest, NodeLabel(node))
		}
		if node.Costliest {
			stats.Costliest = append(stats.Costliest, NodeLabel(node))
		}
		if node.Largest {
			stats.Largest = append(stats.Largest, NodeLabel(node))
		}
	}

	return stats
}

// NodeLabel names a node by type and, when present, relation or CTE.
func NodeLabel(node *plan.PlanNode) string {
	label := node.NodeType
	if label == "" {
		label = "(unknown)"
	}
	switch {
	case node.RelationName != "":
		return label + " on " + node.RelationName
	case node.CTEName != "":
		return label + " on " + node.CTEName
	default:
		return label
	}
}
