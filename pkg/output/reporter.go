package output

import (
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

// Reporter renders session progress as it happens. Render failures are
// logged and never interrupt the session.
type Reporter struct {
	r      *Renderer
	title  string
	dryRun bool
	plan   types.SyncPlan
	logger zerolog.Logger
}

// NewReporter returns a Reporter that writes through r.
func NewReporter(r *Renderer, title string, dryRun bool) *Reporter {
	return &Reporter{
		r:      r,
		title:  title,
		dryRun: dryRun,
		logger: logging.GetLogger("output.Reporter"),
	}
}

func (p *Reporter) PlanReady(plan types.SyncPlan) {
	p.plan = plan
	p.check(p.r.RenderPlan(NewPlanView(p.title, plan, p.dryRun)))
}

func (p *Reporter) ItemExecuted(result types.ExecResult) {
	p.check(p.r.RenderItem(NewItemView(result)))
}

func (p *Reporter) SessionDone(result *types.SessionResult) {
	p.check(p.r.RenderSummary(NewSummaryView(p.plan, result)))
}

func (p *Reporter) check(err error) {
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to render output")
	}
}
