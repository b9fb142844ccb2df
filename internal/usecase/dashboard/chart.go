package dashboard

import (
	"context"
	"time"

	"github.com/PampangaDental/clinic-scheduler/internal/chart"
	"github.com/PampangaDental/clinic-scheduler/internal/timeslot"
)

type BuildChart struct {
	repo chart.Repository
}

func NewBuildChart(repo chart.Repository) *BuildChart {
	return &BuildChart{repo: repo}
}

// Execute resolves the anchor parameter (falling back to today on missing
// or malformed input) and builds the chart. The same structure serves the
// full page render and the ajax refresh.
func (uc *BuildChart) Execute(
	ctx context.Context,
	viewMode string,
	anchorParam string,
	today time.Time,
) (*chart.Chart, error) {

	anchor := today
	if d, ok := timeslot.ParseDate(anchorParam); ok {
		anchor = d
	}

	return chart.Build(ctx, uc.repo, viewMode, anchor)
}
