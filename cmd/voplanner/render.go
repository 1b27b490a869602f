package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/varghesereji/VOPlanner/internal/coord"
	"github.com/varghesereji/VOPlanner/internal/planner"
	"github.com/varghesereji/VOPlanner/internal/timegrid"
)

func writePlanJSON(w io.Writer, plan *planner.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// writePlanText prints one row per resolved target, then the skipped ones.
// Times are local to the site.
func writePlanText(w io.Writer, plan *planner.Plan) error {
	loc := plan.Grid.Location
	fmt.Fprintf(w, "Site:    %s (%s)\n", plan.Site.Name, plan.Timezone)
	fmt.Fprintf(w, "Window:  %s -> %s, %d samples every %s\n\n",
		plan.Start.In(loc).Format(timegrid.Layout),
		plan.End.In(loc).Format(timegrid.Layout),
		plan.Samples, plan.Grid.Interval)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tRA\tDEC\tSOURCE\tMAX ALT\tAT\tOBSERVABLE (h)\tWINDOWS")
	for _, r := range plan.Resolved {
		s := r.Track.Summary
		at := "-"
		if !s.MaxAltitudeTime.IsZero() {
			at = s.MaxAltitudeTime.In(loc).Format("01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\t%.2f\t%d\n",
			r.Name,
			coord.FormatRA(r.Position.RA(), 2),
			coord.FormatDec(r.Position.Dec(), 1),
			r.Position.Source(),
			s.MaxAltitudeDeg,
			at,
			s.ObservableHours,
			len(r.Track.Windows),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(plan.Skipped) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nSkipped %d target(s):\n", len(plan.Skipped))
	for _, s := range plan.Skipped {
		if s.Detail != "" {
			fmt.Fprintf(w, "  %s: %s (%s)\n", s.Name, s.Reason, s.Detail)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", s.Name, s.Reason)
	}
	return nil
}
