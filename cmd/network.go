package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/parser"
	"github.com/pable/go-passnet/internal/report"
)

var (
	networkSource   sourceFlags
	networkAnalysis analysisFlags
)

var networkCmd = &cobra.Command{
	Use:   "network <events.json>",
	Short: "Compute and print a team's pass network without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetwork,
}

func init() {
	networkSource.register(networkCmd.Flags())
	networkAnalysis.register(networkCmd.Flags())
}

func runNetwork(cmd *cobra.Command, args []string) error {
	events, _, err := networkSource.loadEvents(args[0])
	if err != nil {
		return err
	}
	passes, cutoff, err := parser.ExtractPasses(events, networkSource.filter())
	if err != nil {
		return fmt.Errorf("extract passes: %w", err)
	}

	net, err := computeNetwork(networkAnalysis.networkConfig(cmd), passes)
	if err != nil {
		return err
	}

	if cutoff >= 0 {
		fmt.Fprintf(os.Stdout, "\nTeam: %s  |  passes before event %d (first substitution)\n\n", networkSource.team, cutoff)
	} else {
		fmt.Fprintf(os.Stdout, "\nTeam: %s\n\n", networkSource.team)
	}
	report.PrintNetwork(os.Stdout, net, networkAnalysis.focus)
	return nil
}
