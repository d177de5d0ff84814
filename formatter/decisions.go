package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"trafficwarden/trafficController"
)

// PrintDecisionsTable prints a formatted table of per-instance decisions
func PrintDecisionsTable(w io.Writer, decisions []trafficController.Decision, runTime time.Time) {
	if len(decisions) == 0 {
		fmt.Fprintln(w, "No instances configured.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Run time: %s\n", runTime.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(tw, "INSTANCE ID\tREGION\tTRAFFIC\tTHRESHOLD\tCURRENT\tDESIRED\tACTION\tRESULT")

	for _, decision := range decisions {
		result := "ok"
		if decision.Err != nil {
			result = decision.Err.Error()
		}

		current := string(decision.Current)
		if current == "" {
			current = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%.2f GB\t%.2f GB\t%s\t%s\t%s\t%s\n",
			decision.InstanceID,
			decision.Region,
			decision.TrafficGB,
			decision.ThresholdGB,
			current,
			decision.Desired,
			decision.Action,
			result,
		)
	}

	tw.Flush()
}
