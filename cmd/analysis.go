package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-passnet/internal/logger"
	"github.com/pable/go-passnet/internal/model"
	"github.com/pable/go-passnet/internal/network"
	"github.com/pable/go-passnet/internal/parser"
	"github.com/pable/go-passnet/internal/report"
	"github.com/pable/go-passnet/internal/storage"
)

// analysisFlags are the per-run overrides of the configured network settings.
type analysisFlags struct {
	exclude string
	roster  int
	minPair int
	focus   string
}

func (a *analysisFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&a.exclude, "exclude", "", "remove every pass involving this player before computing")
	fs.IntVar(&a.roster, "roster", network.DefaultRosterSize, "roster size N used by centralization and density")
	fs.IntVar(&a.minPair, "min-pair", network.DefaultMinPairPassCount, "minimum passes for a pair to be drawn as an edge")
	fs.StringVar(&a.focus, "focus", "", "highlight this player's rows")
}

// networkConfig starts from the loaded config and applies the flags the user
// set explicitly.
func (a *analysisFlags) networkConfig(cmd *cobra.Command) network.Config {
	nc := cfg.Network()
	if cmd.Flags().Changed("roster") {
		nc.RosterSize = a.roster
	}
	if cmd.Flags().Changed("min-pair") {
		nc.Thresholds.MinPairPassCount = a.minPair
	}
	nc.ExcludedPlayer = a.exclude
	return nc
}

// sourceFlags describe how to read an event log and which passes to keep.
type sourceFlags struct {
	format   string
	players  string
	teams    string
	team     string
	cutAtSub bool
	surnames bool
}

func (s *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.format, "format", string(model.FormatStatsBomb), "event log format: statsbomb or wyscout")
	fs.StringVar(&s.players, "players", "", "Wyscout players.json (player names)")
	fs.StringVar(&s.teams, "teams", "", "Wyscout teams.json (team names)")
	fs.StringVar(&s.team, "team", "", "team whose passes form the network (required)")
	fs.BoolVar(&s.cutAtSub, "cut-at-sub", true, "keep only passes before the team's first substitution")
	fs.BoolVar(&s.surnames, "surnames", false, "identify players by surname")
}

func (s *sourceFlags) sources(eventsPath string) parser.Sources {
	return parser.Sources{
		Format:      model.Format(s.format),
		EventsPath:  eventsPath,
		PlayersPath: s.players,
		TeamsPath:   s.teams,
	}
}

// matchKey identifies the pass log an import with these flags produces.
// The Wyscout lookup files are hashed because they supply the names.
func (s *sourceFlags) matchKey(sourceHash string) (storage.MatchKey, error) {
	k := storage.MatchKey{
		SourceHash: sourceHash,
		Format:     model.Format(s.format),
		Team:       s.team,
		CutAtSub:   s.cutAtSub,
		Surnames:   s.surnames,
	}
	if k.Format != model.FormatWyscout {
		return k, nil
	}
	var err error
	if s.players != "" {
		if k.PlayersHash, err = parser.HashFile(s.players); err != nil {
			return k, fmt.Errorf("hash players file: %w", err)
		}
	}
	if s.teams != "" {
		if k.TeamsHash, err = parser.HashFile(s.teams); err != nil {
			return k, fmt.Errorf("hash teams file: %w", err)
		}
	}
	return k, nil
}

func (s *sourceFlags) filter() parser.Filter {
	return parser.Filter{Team: s.team, CutAtFirstSub: s.cutAtSub, Surnames: s.surnames}
}

// loadEvents parses an event log and checks that a team was chosen, listing
// the teams present when it was not.
func (s *sourceFlags) loadEvents(eventsPath string) ([]model.RawEvent, string, error) {
	events, hash, err := parser.Load(s.sources(eventsPath))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", filepath.Base(eventsPath), err)
	}
	if s.team == "" {
		return nil, "", fmt.Errorf("--team is required; teams in this log: %v", parser.Teams(events))
	}
	logger.WithComponent("parser").WithFields(logrus.Fields{
		"file":   filepath.Base(eventsPath),
		"format": s.format,
		"events": len(events),
	}).Debug("event log parsed")
	return events, hash, nil
}

// computeNetwork runs the computer and logs how long it took.
func computeNetwork(nc network.Config, passes []model.PassEvent) (*model.Network, error) {
	start := time.Now()
	net, err := network.New(nc).Compute(passes)
	log := logger.WithComponent("network").WithFields(logrus.Fields{
		"passes":   len(passes),
		"duration": time.Since(start).String(),
	})
	if err != nil {
		log.WithError(err).Debug("network computation failed")
		return nil, fmt.Errorf("compute network: %w", err)
	}
	log.Debug("network computed")
	return net, nil
}

// showStored recomputes and prints the network of a stored pass log.
func showStored(w io.Writer, db *storage.DB, m model.Match, nc network.Config, focus string) error {
	passes, err := db.GetPasses(m.ID)
	if err != nil {
		return fmt.Errorf("get passes: %w", err)
	}
	net, err := computeNetwork(nc, passes)
	if err != nil {
		return err
	}
	report.PrintMatchHeader(w, m)
	report.PrintNetwork(w, net, focus)
	return nil
}

// openStore opens the configured database, creating its directory.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// findMatch resolves an id prefix, reporting a missing match as an error.
func findMatch(db *storage.DB, prefix string) (*model.Match, error) {
	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("no match found with id prefix %q", prefix)
	}
	return m, nil
}
