package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/varghesereji/VOPlanner/internal/coord"
	"github.com/varghesereji/VOPlanner/internal/httputil"
	"github.com/varghesereji/VOPlanner/internal/planner"
	"github.com/varghesereji/VOPlanner/internal/resolver"
	"github.com/varghesereji/VOPlanner/internal/site"
	"github.com/varghesereji/VOPlanner/internal/targets"
)

var (
	errNoSites = errors.New("no sites registered")
	validate   = validator.New()
)

type siteView struct {
	site.Site
	Timezone string `json:"timezone"`
}

func sitesHandler(sites *site.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := sites.All()
		views := make([]siteView, 0, len(all))
		for _, s := range all {
			views = append(views, siteView{Site: s, Timezone: s.TimezoneName()})
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"sites": views})
	}
}

type resolveResponse struct {
	Target   string          `json:"target"`
	Resolved bool            `json:"resolved"`
	Position *coord.Position `json:"position,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// resolveStatus maps an unresolved reason onto an HTTP status.
func resolveStatus(reason resolver.Reason) int {
	switch reason {
	case resolver.ReasonQueryFailed:
		return http.StatusBadGateway
	case resolver.ReasonDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusNotFound
	}
}

func resolveHandler(res resolver.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		result := res.Resolve(r.Context(), name)

		pos, ok := result.Position()
		if !ok {
			httputil.WriteJSON(w, resolveStatus(result.Reason()), resolveResponse{
				Target: name,
				Reason: string(result.Reason()),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, resolveResponse{Target: name, Resolved: true, Position: &pos})
	}
}

type parseRequest struct {
	RA  string `json:"ra" validate:"required"`
	Dec string `json:"dec" validate:"required"`
}

func parseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req parseRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if err := validate.Struct(req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "ra and dec are required", nil)
			return
		}

		pos, err := coord.Parse(req.RA, req.Dec)
		if err != nil {
			extra := map[string]any{}
			var fe *coord.FormatError
			if errors.As(err, &fe) {
				extra["axis"] = fe.Axis
			}
			httputil.WriteError(w, http.StatusBadRequest, err.Error(), extra)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"position": pos})
	}
}

func planHandler(plans *planner.Planner, maxTargets int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planner.Request
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if err := validate.Struct(req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if len(req.Targets) > maxTargets {
			httputil.WriteError(w, http.StatusBadRequest, "too many targets", map[string]any{"max_targets": maxTargets})
			return
		}
		normalizeMissing(req.Targets)

		plan, err := plans.Run(r.Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			if planner.IsRequestError(err) {
				status = http.StatusBadRequest
			}
			httputil.WriteError(w, status, err.Error(), nil)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, plan)
	}
}

// normalizeMissing treats marker strings in JSON the same way the CSV
// loader does.
func normalizeMissing(recs []coord.TargetRecord) {
	for i := range recs {
		if recs[i].RawRA != nil && targets.IsMissing(*recs[i].RawRA) {
			recs[i].RawRA = nil
		}
		if recs[i].RawDec != nil && targets.IsMissing(*recs[i].RawDec) {
			recs[i].RawDec = nil
		}
	}
}
