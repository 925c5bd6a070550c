package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacobarthurs/pgpev/internal/plan"
)

// badEstimateFactor is the row misestimate at which a node is tagged.
const badEstimateFactor = 100

// formatDuration renders milliseconds with a unit and the style matching
// its magnitude.
func formatDuration(ms float64) (string, Style) {
	switch {
	case ms < 100:
		return fmt.Sprintf("%.2f ms", ms), Good
	case ms < 1000:
		return fmt.Sprintf("%.2f ms", ms), Warning
	case ms < 60000:
		return fmt.Sprintf("%.2f s", ms/2000), Critical
	default:
		return fmt.Sprintf("%.2f m", ms/60000), Critical
	}
}

func formatPercent(part, whole float64) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDetails(node *plan.PlanNode) string {
	var details []string
	if node.ScanDirection != "" {
		details = append(details, node.ScanDirection)
	}
	if node.Strategy != "" {
		details = append(details, node.Strategy)
	}
	return strings.Join(details, ", ")
}

func formatTags(node *plan.PlanNode) string {
	var tags []string
	if node.Slowest {
		tags = append(tags, " slowest ")
	}
	if node.Costliest {
		tags = append(tags, " costliest ")
	}
	if node.Largest {
		tags = append(tags, " largest ")
	}
	if node.EstimateFactor >= badEstimateFactor {
		tags = append(tags, " bad estimate ")
	}
	return strings.Join(tags, " ")
}

// terminator marks each wrapped output line; the first starts the arrow.
func terminator(index int, hasChildren bool) string {
	switch {
	case index == 0 && hasChildren:
		return "├►  "
	case index == 0:
		return "⌡► "
	case hasChildren:
		return "│  "
	default:
		return "   "
	}
}
