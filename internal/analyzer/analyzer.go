package analyzer

import (
	"github.com/jacobarthurs/pgpev/internal/plan"
)

// Analyze runs both passes: annotation over the whole tree, then outlier
// classification against the final maxima.
func Analyze(explain *plan.Explain, opts Options) (*Annotated, error) {
	annotated, err := Annotate(NewDocument(explain), opts)
	if err != nil {
		return nil, err
	}

	ClassifyOutliers(annotated)

	return annotated, nil
}
