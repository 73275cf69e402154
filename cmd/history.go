package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fincmd/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagJournalLimit int
	flagPruneBefore  string
)

var historyCmd = &cobra.Command{
	Use:   "history <label>",
	Short: "Show the change history of one label",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop history entries older than --before",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		before, err := parseBefore(flagPruneBefore, time.Now())
		if err != nil {
			return err
		}
		n, err := svc.PruneHistory(before)
		if err != nil {
			return err
		}
		done("Removed %d history entries before %s", n, before.Format(time.DateOnly))
		return nil
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recently applied actions",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete journal entries older than --before",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := requireLedger(); err != nil {
			return err
		}
		before, err := parseBefore(flagPruneBefore, time.Now())
		if err != nil {
			return err
		}
		n, err := env.store.PruneJournal(before)
		if err != nil {
			return err
		}
		done("Removed %d journal entries before %s", n, before.Format(time.DateOnly))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Entries to show")
	journalCmd.Flags().IntVarP(&flagJournalLimit, "limit", "n", 20, "Entries to show")
	for _, c := range []*cobra.Command{historyPruneCmd, journalPruneCmd} {
		c.Flags().StringVar(&flagPruneBefore, "before", "90d", "Cutoff: a date (2006-01-02) or an age such as 30d")
	}
	historyCmd.AddCommand(historyPruneCmd)
	journalCmd.AddCommand(journalPruneCmd)
	rootCmd.AddCommand(historyCmd, journalCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	label := strings.Join(args, " ")
	entries := svc.History(label)
	if flagJSON {
		return printJSON(entries)
	}

	fmt.Println()
	if len(entries) == 0 {
		fmt.Printf("  No history for %s.\n\n", label)
		return nil
	}

	f := formatter()
	now := time.Now()
	shown := entries
	if flagHistoryLimit > 0 && flagHistoryLimit < len(entries) {
		shown = entries[:flagHistoryLimit]
	}
	rows := make([][]string, 0, len(shown))
	for _, e := range shown {
		when := cli.Muted("-")
		if !e.Time.IsZero() {
			when = cli.FormatWhen(e.Time, now)
		}
		rows = append(rows, []string{when, cli.Tone(e.Amount, f.Signed(e.Amount)), e.Reason})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   label,
		Headers: []string{"When", "Amount", "Reason"},
		Rows:    rows,
	}))

	// Running total, oldest first, so the sparkline reads left to right.
	series := make([]float64, 0, len(entries))
	running := 0.0
	for _, e := range slices.Backward(entries) {
		running += e.Amount.Float64()
		series = append(series, running)
	}
	if len(series) > 1 {
		fmt.Printf("  %s %s\n", cli.Muted("trend"), cli.RenderSparkline(series))
	}
	if len(entries) > len(shown) {
		fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("%d older entries not shown", len(entries)-len(shown))))
	}
	fmt.Println()
	return nil
}

func runJournal(_ *cobra.Command, _ []string) error {
	if _, err := requireLedger(); err != nil {
		return err
	}
	entries, err := env.store.Journal(flagJournalLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(entries)
	}

	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("  No actions recorded yet.")
		fmt.Println()
		return nil
	}
	now := time.Now()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.Seq, 10), cli.FormatWhen(e.At, now), e.Operation, e.Detail})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Journal",
		Headers: []string{"#", "When", "Action", "Detail"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

// parseBefore reads a cutoff given as a date or as an age in days ("30d").
func parseBefore(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid age %q", s)
		}
		return now.AddDate(0, 0, -n), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want 2006-01-02 or an age like 30d)", s)
	}
	return t, nil
}
