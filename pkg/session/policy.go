package session

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Policy is a non-interactive Decider
type Policy string

const (
	// PolicyAll selects every actionable entry
	PolicyAll Policy = "all"
	// PolicyPull selects entries that copy the repository into home
	PolicyPull Policy = "pull"
	// PolicyPush selects entries that copy home into the repository
	PolicyPush Policy = "push"
	// PolicyNone selects nothing
	PolicyNone Policy = "none"
)

// Policies lists the accepted policy names
var Policies = []Policy{PolicyAll, PolicyPull, PolicyPush, PolicyNone}

// ParsePolicy converts a name into a Policy
func ParsePolicy(name string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Policies {
		if p == known {
			return p, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown policy %q", name).
		WithDetail("policy", name)
}

// Select implements Decider
func (p Policy) Select(ctx context.Context, plan types.SyncPlan) ([]types.PlanEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var selected []types.PlanEntry
	for _, entry := range plan.Actionable() {
		if p.accepts(entry.Action) {
			selected = append(selected, entry)
		}
	}
	return selected, nil
}

func (p Policy) accepts(action types.SyncAction) bool {
	switch p {
	case PolicyAll:
		return true
	case PolicyPull:
		return action.WritesHome()
	case PolicyPush:
		return action.WritesRepo()
	default:
		return false
	}
}
