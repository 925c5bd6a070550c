package analyzer

import "github.com/jacobarthurs/pgpev/internal/plan"

// EstimateRows compares the planner's row estimate with the observed count.
// A zero denominator yields factor 0. planned == 0 with actual > 0 comes out
// as "Over" by 0x; that is kept as-is.
func EstimateRows(planned, actual int64) (factor float64, direction string) {
	if planned == actual {
		return 0, ""
	}

	direction = plan.Under
	if planned != 0 {
		factor = float64(actual) / float64(planned)
	}

	if factor < 1.0 {
		factor = 0
		direction = plan.Over
		if actual != 0 {
			factor = float64(planned) / float64(actual)
		}
	}
	return factor, direction
}
