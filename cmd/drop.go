package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/logger"
	"github.com/pable/go-passnet/internal/report"
)

var dropForce bool

// dropCmd deletes one stored pass log, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [id-prefix]",
	Short: "Delete a stored pass log or the whole database",
	Long: `With an id prefix, delete that pass log and its passes. Without one,
permanently delete the SQLite database. All stored pass logs will be lost;
re-import your event logs afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropMatch(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropMatch(prefix string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, prefix)
	if err != nil {
		return err
	}
	deleted, err := db.DeleteMatch(m.ID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if deleted {
		logger.WithComponent("storage").WithField("id", report.ShortID(m.ID)).Debug("pass log deleted")
		fmt.Fprintf(os.Stdout, "Deleted pass log %s (%s, %d passes)\n", report.ShortID(m.ID), m.Team, m.PassCount)
	}
	return nil
}
