package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/events"
)

var activityFlags struct {
	keep int
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Summarize recent quote, booking and contact events",
	Long: `Read the event history from JetStream and print counts per event
type along with the newest events.

History lives in the NATS server's memory, so this is only useful with
nats_url pointing at a server shared with other polaron processes.`,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().IntVarP(&activityFlags.keep, "keep", "k", 10, "Number of recent events to show")
}

func runActivity(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	src := rt.activity()
	if src == nil {
		return events.ErrNoHistory
	}
	act, err := src.Activity(cmd.Context(), activityFlags.keep)
	if err != nil {
		return err
	}
	return writeActivity(cmd.OutOrStdout(), act)
}

func writeActivity(w io.Writer, act *events.Activity) error {
	if act.Total == 0 {
		_, err := fmt.Fprintln(w, "No activity")
		return err
	}
	keys := make([]string, 0, len(act.Counts))
	for k := range act.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%d event(s):\n", act.Total)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-22s %d\n", k, act.Counts[k])
	}
	if len(act.Recent) > 0 {
		fmt.Fprintln(w, "Recent:")
	}
	for _, ev := range act.Recent {
		fmt.Fprintf(w, "  [%s] %s.%s %s\n", ev.Timestamp.Format("15:04:05"), ev.Flow, ev.Action, ev.ID)
	}
	return nil
}
