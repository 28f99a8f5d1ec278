package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var showAnalysis analysisFlags

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Recompute and show the network of a stored pass log",
	Long: `Recompute the pass network of a stored pass log. Networks are never stored,
so --exclude, --roster and --min-pair apply to every run.

Example:
  passnet show 3fa9c2 --exclude "Keira Walsh" --focus "Lucy Bronze"`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showAnalysis.register(showCmd.Flags())
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil {
		return err
	}
	return showStored(os.Stdout, db, *m, showAnalysis.networkConfig(cmd), showAnalysis.focus)
}
