package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/logger"
	"github.com/pable/go-passnet/internal/model"
	"github.com/pable/go-passnet/internal/network"
	"github.com/pable/go-passnet/internal/parser"
	"github.com/pable/go-passnet/internal/report"
	"github.com/pable/go-passnet/internal/storage"
)

var (
	importSource   sourceFlags
	importAnalysis analysisFlags
	importLabel    string
)

var importCmd = &cobra.Command{
	Use:   "import <events.json>",
	Short: "Parse an event log, store the team's pass log and print its network",
	Long: `Parse a StatsBomb or Wyscout event log, extract the completed passes of one
team and store them. The pass network is computed from the stored passes
and printed. Importing the same file with the same options again shows the
stored result instead.

Examples:
  passnet import 69301.json --team "England Women's"
  passnet import events_England.json --format wyscout --players players.json \
      --teams teams.json --team England --surnames`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importSource.register(importCmd.Flags())
	importAnalysis.register(importCmd.Flags())
	importCmd.Flags().StringVar(&importLabel, "label", "", "label for the stored pass log (default: file name)")
}

func runImport(cmd *cobra.Command, args []string) error {
	eventsPath := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", eventsPath)
	events, hash, err := importSource.loadEvents(eventsPath)
	if err != nil {
		return err
	}

	nc := importAnalysis.networkConfig(cmd)
	key, err := importSource.matchKey(hash)
	if err != nil {
		return err
	}
	id := storage.MatchID(key)
	exists, err := db.MatchExists(id)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Pass log %s already stored — showing cached results.\n", report.ShortID(id))
		m, err := findMatch(db, id)
		if err != nil {
			return err
		}
		return showStored(os.Stdout, db, *m, nc, importAnalysis.focus)
	}

	passes, cutoff, err := parser.ExtractPasses(events, importSource.filter())
	if err != nil {
		return fmt.Errorf("extract passes: %w", err)
	}
	if len(passes) == 0 {
		return fmt.Errorf("no completed passes for %q in %s, nothing stored: %w",
			importSource.team, filepath.Base(eventsPath), network.ErrEmptyInput)
	}

	label := importLabel
	if label == "" {
		label = filepath.Base(eventsPath)
	}
	m := model.Match{
		ID:          id,
		SourceHash:  hash,
		Format:      model.Format(importSource.format),
		MatchID:     sourceMatchID(events),
		Team:        importSource.team,
		Opponent:    parser.Opponent(events, importSource.team),
		Label:       label,
		CutoffIndex: cutoff,
		PassCount:   len(passes),
		ImportedAt:  time.Now().UTC(),
	}
	if err := db.InsertMatch(m, passes); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	logger.WithComponent("storage").WithField("id", report.ShortID(id)).Infof("stored %d passes for %s", len(passes), m.Team)

	return showStored(os.Stdout, db, m, nc, importAnalysis.focus)
}

// sourceMatchID returns the provider's match id when the log carries one.
func sourceMatchID(events []model.RawEvent) string {
	for _, ev := range events {
		if ev.MatchID != "" {
			return ev.MatchID
		}
	}
	return ""
}
