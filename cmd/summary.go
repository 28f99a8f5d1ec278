package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all stored pass logs: match and pass
counts, distinct teams and players, and a per-team breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No pass logs stored yet. Run 'passnet import <events.json> --team <team>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Pass logs     : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Passes        : %d\n", ov.TotalPasses)
	fmt.Fprintf(os.Stdout, "  Unique teams  : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Players seen  : %d\n", ov.Players)

	teams, err := db.GetTeamPassCounts()
	if err != nil {
		return fmt.Errorf("get team counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TEAM", "MATCHES", "PASSES", "PASSES/MATCH")
	for _, t := range teams {
		perMatch := 0.0
		if t.Matches > 0 {
			perMatch = float64(t.Passes) / float64(t.Matches)
		}
		tt.Append(
			t.Team,
			fmt.Sprintf("%d", t.Matches),
			fmt.Sprintf("%d", t.Passes),
			fmt.Sprintf("%.1f", perMatch),
		)
	}
	tt.Render()
	fmt.Fprintln(os.Stdout)
	return nil
}
