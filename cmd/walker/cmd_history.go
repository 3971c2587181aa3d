package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osmike/walker/monitoring/sqlite"
)

var historyFlags struct {
	db    string
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent steps from the step history database",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.db, "db", "", "History database file (required)")
	f.IntVar(&historyFlags.limit, "limit", 20, "Number of steps to show")

	_ = historyCmd.MarkFlagRequired("db")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	h, err := sqlite.Open(historyFlags.db, nil)
	if err != nil {
		return err
	}
	defer h.Close()

	recs, err := h.Recent(historyFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No steps recorded.")
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s  %-36s  #%-4d  %-9s  %8s",
			r.StartAt.Format(time.DateTime), r.WalkID, r.Seq, r.Status, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(out, "  %s", r.Error)
		}
		fmt.Fprintln(out)
	}
	return nil
}
