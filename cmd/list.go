package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored pass logs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No pass logs stored yet. Run 'passnet import <events.json> --team <team>' to add one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
