package planner

import (
	"fmt"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// Descriptor is the human facing rendering of a plan entry
type Descriptor struct {
	Symbol string
	Text   string
	// Style names an entry in the output style sheet
	Style string
}

// Describe returns the descriptor shown next to an entry
func Describe(e types.PlanEntry) Descriptor {
	if e.Err != nil {
		return Descriptor{Symbol: "!", Text: fmt.Sprintf("Unreadable: %v", e.Err), Style: "error"}
	}

	switch e.Status {
	case types.StatusNewInHome:
		return Descriptor{Symbol: "←", Text: fmt.Sprintf("New %s in home → repo", e.Kind()), Style: "warning"}
	case types.StatusNewInRepo:
		return Descriptor{Symbol: "→", Text: fmt.Sprintf("New %s in repo → home", e.Kind()), Style: "info"}
	case types.StatusTypeMismatch:
		return Descriptor{Symbol: "✗", Text: "Type mismatch!", Style: "error"}
	case types.StatusInSync:
		return Descriptor{Symbol: "✓", Text: "In sync", Style: "success"}
	case types.StatusRepoNewer:
		return Descriptor{Symbol: "→", Text: "Repo newer → home", Style: "accent"}
	case types.StatusHomeNewer:
		return Descriptor{Symbol: "←", Text: "Home newer → repo", Style: "warning"}
	default:
		return Descriptor{Symbol: "?", Text: "Not found", Style: "muted"}
	}
}
