// Package planner runs a batch visibility plan: it builds the time grid,
// turns every target into a position and computes its track.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/varghesereji/VOPlanner/internal/coord"
	"github.com/varghesereji/VOPlanner/internal/metrics"
	"github.com/varghesereji/VOPlanner/internal/resolver"
	"github.com/varghesereji/VOPlanner/internal/site"
	"github.com/varghesereji/VOPlanner/internal/timegrid"
	"github.com/varghesereji/VOPlanner/internal/visibility"
)

// ReasonCanceled marks targets skipped because the run's context ended.
const ReasonCanceled = "canceled"

// Request describes one planning run.
type Request struct {
	Site          string               `json:"site" validate:"required"`
	Start         string               `json:"start" validate:"required"`
	End           string               `json:"end" validate:"required"`
	IntervalHours float64              `json:"interval_hrs"`
	MinAltitude   float64              `json:"alt_min" validate:"gte=-90,lte=90"`
	MaxAltitude   float64              `json:"alt_max" validate:"gte=-90,lte=90"`
	Targets       []coord.TargetRecord `json:"targets" validate:"required,min=1,dive"`
}

// Resolved is a target with a position and its track.
type Resolved struct {
	Name     string           `json:"name"`
	Position coord.Position   `json:"position"`
	Track    visibility.Track `json:"track"`
}

// Skipped is a target that was excluded from the plan.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Plan is the result of a run. Resolved and Skipped keep input order.
type Plan struct {
	Site     site.Site     `json:"site"`
	Timezone string        `json:"timezone"`
	Grid     timegrid.Grid `json:"-"`
	Samples  int           `json:"samples"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Resolved []Resolved    `json:"resolved"`
	Skipped  []Skipped     `json:"skipped"`
}

// Planner is stateless between runs and safe for concurrent use.
type Planner struct {
	sites    *site.Registry
	resolver resolver.Resolver
	grids    timegrid.Builder
	logger   *slog.Logger
}

// Option customizes a Planner.
type Option func(*Planner)

// WithMaxSamples caps the grid size.
func WithMaxSamples(n int) Option {
	return func(p *Planner) { p.grids.MaxSamples = n }
}

// New creates a Planner. A nil resolver disables remote lookups.
func New(sites *site.Registry, res resolver.Resolver, logger *slog.Logger, opts ...Option) *Planner {
	if res == nil {
		res = resolver.Disabled{}
	}
	p := &Planner{
		sites:    sites,
		resolver: res,
		logger:   logger.With("component", "planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes req. Errors affecting the whole run (unknown site, bad
// times, bad interval) are returned before any target is touched;
// per-target failures end up in Plan.Skipped.
func (p *Planner) Run(ctx context.Context, req Request) (*Plan, error) {
	start := time.Now()

	st, err := p.sites.Lookup(req.Site)
	if err != nil {
		return nil, err
	}

	grid, err := p.grids.Build(req.Start, req.End, req.IntervalHours, st.Location)
	if err != nil {
		return nil, fmt.Errorf("building time grid: %w", err)
	}

	p.logger.Info("plan started",
		"site", st.ID,
		"start", grid.Start().In(st.Location).Format(timegrid.Layout),
		"end", grid.End().In(st.Location).Format(timegrid.Layout),
		"samples", grid.Len(),
		"targets", len(req.Targets),
	)

	vreq := visibility.Request{
		Observer:       visibility.ObserverFor(st),
		Grid:           grid,
		MinAltitudeDeg: req.MinAltitude,
		MaxAltitudeDeg: req.MaxAltitude,
	}

	plan := &Plan{
		Site:     st,
		Timezone: st.TimezoneName(),
		Grid:     grid,
		Samples:  grid.Len(),
		Start:    grid.Start(),
		End:      grid.End(),
		Resolved: make([]Resolved, 0, len(req.Targets)),
		Skipped:  []Skipped{},
	}

	for _, rec := range req.Targets {
		if err := ctx.Err(); err != nil {
			p.skip(plan, rec.Name, ReasonCanceled, err.Error())
			continue
		}

		pos, skip := p.position(ctx, rec)
		if skip != nil {
			p.skip(plan, skip.Name, skip.Reason, skip.Detail)
			continue
		}

		metrics.RecordTarget(string(pos.Source()))
		plan.Resolved = append(plan.Resolved, Resolved{
			Name:     rec.Name,
			Position: pos,
			Track:    visibility.Compute(rec.Name, pos, vreq),
		})
	}

	metrics.RecordPlan(time.Since(start), grid.Len())
	p.logger.Info("plan finished",
		"resolved", len(plan.Resolved),
		"skipped", len(plan.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return plan, nil
}

// position parses the record's own coordinates and falls back to the
// remote resolver when they are absent or unparseable.
func (p *Planner) position(ctx context.Context, rec coord.TargetRecord) (coord.Position, *Skipped) {
	var parseErr error
	if rec.HasCoordinates() {
		pos, err := coord.Parse(*rec.RawRA, *rec.RawDec)
		if err == nil {
			return pos, nil
		}
		parseErr = err
		p.logger.Warn("coordinates unparseable, trying remote resolution",
			"target", rec.Name, "ra", *rec.RawRA, "dec", *rec.RawDec, "error", err)
	} else {
		p.logger.Debug("coordinates absent, trying remote resolution", "target", rec.Name)
	}

	res := p.resolver.Resolve(ctx, rec.Name)
	if pos, ok := res.Position(); ok {
		return pos, nil
	}

	skip := &Skipped{Name: rec.Name, Reason: string(res.Reason())}
	if parseErr != nil {
		skip.Detail = parseErr.Error()
	}
	return coord.Position{}, skip
}

func (p *Planner) skip(plan *Plan, name, reason, detail string) {
	p.logger.Warn("target skipped", "target", name, "reason", reason, "detail", detail)
	metrics.RecordTarget("skipped_" + reason)
	plan.Skipped = append(plan.Skipped, Skipped{Name: name, Reason: reason, Detail: detail})
}

// IsRequestError reports whether err came from bad run parameters rather
// than an internal failure.
func IsRequestError(err error) bool {
	return errors.Is(err, site.ErrUnknownSite) ||
		errors.Is(err, timegrid.ErrInvalidTimeFormat) ||
		errors.Is(err, timegrid.ErrInvalidInterval)
}
