package output

import (
	"encoding/json"
	"io"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
	"github.com/jacobarthurs/pgpev/internal/plan"
)

type jsonDocument struct {
	Plan          *plan.PlanNode `json:"Plan"`
	PlanningTime  float64        `json:"Planning Time"`
	ExecutionTime float64        `json:"Execution Time"`
	TotalCost     float64        `json:"Total Cost"`
	MaxRows       int64          `json:"Max Rows"`
	MaxCost       float64        `json:"Max Cost"`
	MaxDuration   float64        `json:"Max Duration"`
}

func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderAnnotatedJSON writes the document in the shape EXPLAIN emits, with
// the derived fields and tree-wide aggregates added.
func RenderAnnotatedJSON(w io.Writer, a *analyzer.Annotated) error {
	return RenderJSON(w, []jsonDocument{{
		Plan:          a.Root(),
		PlanningTime:  a.Explain.PlanningTime,
		ExecutionTime: a.Explain.ExecutionTime,
		TotalCost:     a.TotalCost,
		MaxRows:       a.MaxRows,
		MaxCost:       a.MaxCost,
		MaxDuration:   a.MaxDuration,
	}})
}
