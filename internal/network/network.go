// Package network computes pass-network measures from a list of completed
// passes: node positions and sizes, undirected and directed edges,
// centralization, density and hub involvement.
//
// Every function here is a pure function of its input. Outputs are sorted so
// repeated calls on the same input return identical slices.
package network

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-passnet/internal/model"
)

// pairKeySep joins the two identifiers of an undirected pair key.
const pairKeySep = "_"

// Computer runs the full analysis with a fixed Config.
type Computer struct {
	cfg Config
}

// New returns a Computer for cfg.
func New(cfg Config) *Computer {
	return &Computer{cfg: cfg}
}

// Config returns the configuration the Computer was built with.
func (c *Computer) Config() Config { return c.cfg }

// Compute validates events, drops the excluded player if one is configured,
// and returns the complete network. No partial result is returned on error.
func (c *Computer) Compute(events []model.PassEvent) (*model.Network, error) {
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}
	if err := Validate(events); err != nil {
		return nil, err
	}

	events = ExcludePlayer(events, c.cfg.ExcludedPlayer)
	if len(events) == 0 {
		return nil, fmt.Errorf("no passes left after excluding %q: %w", c.cfg.ExcludedPlayer, ErrEmptyInput)
	}

	positions, err := ComputePlayerPositions(events, c.cfg.Scale.MarkerMax)
	if err != nil {
		return nil, fmt.Errorf("player positions: %w", err)
	}
	allPairs, err := CountUndirectedPairs(events, c.cfg.Scale.LineMax)
	if err != nil {
		return nil, fmt.Errorf("undirected pairs: %w", err)
	}
	directed, err := ComputeDirectedPairs(events, c.cfg.Scale.ArrowMax)
	if err != nil {
		return nil, fmt.Errorf("directed pairs: %w", err)
	}

	// The inner join can leave no node when nobody both passed and received.
	if len(positions) == 0 {
		return nil, fmt.Errorf("no player both passed and received: %w", ErrEmptyInput)
	}
	counts := make([]int, len(positions))
	for i, p := range positions {
		counts[i] = p.PassCount
	}
	centralization, err := ComputeCentralization(counts, c.cfg.RosterSize)
	if err != nil {
		return nil, fmt.Errorf("centralization: %w", err)
	}
	directedDensity, err := ComputeDensity(len(directed), c.cfg.RosterSize, true)
	if err != nil {
		return nil, fmt.Errorf("directed density: %w", err)
	}
	undirectedDensity, err := ComputeDensity(len(allPairs), c.cfg.RosterSize, false)
	if err != nil {
		return nil, fmt.Errorf("undirected density: %w", err)
	}
	hub := ComputeHubInvolvement(directed)

	return &model.Network{
		ExcludedPlayer: c.cfg.ExcludedPlayer,
		PassCount:      len(events),
		Positions:      positions,
		Pairs:          FilterPairs(allPairs, c.cfg.Thresholds.MinPairPassCount),
		DirectedPairs:  directed,
		Metrics: model.NetworkMetrics{
			RosterSize:             c.cfg.RosterSize,
			CentralizationIndex:    centralization,
			DirectedDensity:        directedDensity,
			UndirectedDensity:      undirectedDensity,
			ObservedOrderedPairs:   len(directed),
			ObservedUnorderedPairs: len(allPairs),
			HubInvolvement:         hub,
		},
		Hubs: RankHubs(hub),
	}, nil
}

// Validate checks every event for the fields the aggregations rely on.
func Validate(events []model.PassEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("pass list: %w", ErrEmptyInput)
	}
	for i, ev := range events {
		switch {
		case strings.TrimSpace(ev.Passer) == "":
			return &ValidationError{Index: i, Field: "passer", Reason: "is empty"}
		case strings.TrimSpace(ev.Recipient) == "":
			return &ValidationError{Index: i, Field: "recipient", Reason: "is empty"}
		case ev.Passer == ev.Recipient:
			return &ValidationError{Index: i, Field: "recipient", Reason: "equals passer"}
		case !finite(ev.Origin):
			return &ValidationError{Index: i, Field: "origin", Reason: "is not a finite coordinate"}
		case !finite(ev.Destination):
			return &ValidationError{Index: i, Field: "destination", Reason: "is not a finite coordinate"}
		}
	}
	return nil
}

// ExcludePlayer returns the passes that neither start nor end with player.
// An empty player returns events unchanged.
func ExcludePlayer(events []model.PassEvent, player string) []model.PassEvent {
	if player == "" {
		return events
	}
	out := make([]model.PassEvent, 0, len(events))
	for _, ev := range events {
		if ev.Passer == player || ev.Recipient == player {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// ComputePlayerPositions returns one node per player who both passed and
// received, sorted by player. MarkerSize is the player's pass count relative
// to the busiest node, times markerMax.
func ComputePlayerPositions(events []model.PassEvent, markerMax float64) ([]model.PlayerPosition, error) {
	if err := Validate(events); err != nil {
		return nil, err
	}

	type coords struct{ xs, ys []float64 }
	passing := make(map[string]*coords)
	receiving := make(map[string]*coords)
	for _, ev := range events {
		p := passing[ev.Passer]
		if p == nil {
			p = &coords{}
			passing[ev.Passer] = p
		}
		p.xs = append(p.xs, ev.Origin.X)
		p.ys = append(p.ys, ev.Origin.Y)

		r := receiving[ev.Recipient]
		if r == nil {
			r = &coords{}
			receiving[ev.Recipient] = r
		}
		r.xs = append(r.xs, ev.Destination.X)
		r.ys = append(r.ys, ev.Destination.Y)
	}

	// Inner join on player: a node needs both a passing and a receiving mean.
	// Players who only received are dropped, and so are players who only
	// passed. Their passes still count towards edges and hub involvement.
	var positions []model.PlayerPosition
	for player, p := range passing {
		r, ok := receiving[player]
		if !ok {
			continue
		}
		origin := model.Point{X: stat.Mean(p.xs, nil), Y: stat.Mean(p.ys, nil)}
		dest := model.Point{X: stat.Mean(r.xs, nil), Y: stat.Mean(r.ys, nil)}
		positions = append(positions, model.PlayerPosition{
			Player:                   player,
			MeanOriginPassing:        origin,
			MeanDestinationReceiving: dest,
			MeanPosition:             origin.Mid(dest),
			PassCount:                len(p.xs),
		})
	}
	if len(positions) == 0 {
		return positions, nil
	}

	counts := make([]float64, len(positions))
	for i, p := range positions {
		counts[i] = float64(p.PassCount)
	}
	max := floats.Max(counts)
	for i := range positions {
		size, err := normalize(positions[i].PassCount, max, markerMax)
		if err != nil {
			return nil, err
		}
		positions[i].MarkerSize = size
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Player < positions[j].Player })
	return positions, nil
}

// PairKey returns the canonical undirected key for a and b.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + pairKeySep + b
}

// ComputeUndirectedPairs counts passes per unordered pair, normalizes line
// widths against the busiest pair, and drops pairs with fewer than
// minPassCount passes. Pass minPassCount 0 to keep every observed pair.
func ComputeUndirectedPairs(events []model.PassEvent, minPassCount int, lineMax float64) ([]model.PassPair, error) {
	if err := Validate(events); err != nil {
		return nil, err
	}

	byKey := make(map[string]*model.PassPair)
	for _, ev := range events {
		key := PairKey(ev.Passer, ev.Recipient)
		a, b := ev.Passer, ev.Recipient
		if b < a {
			a, b = b, a
		}
		pp := byKey[key]
		if pp == nil {
			pp = &model.PassPair{PairKey: key, PlayerA: a, PlayerB: b}
			byKey[key] = pp
		}
		pp.PassCount++
	}

	counts := make([]float64, 0, len(byKey))
	for _, pp := range byKey {
		counts = append(counts, float64(pp.PassCount))
	}
	max := floats.Max(counts)

	pairs := make([]model.PassPair, 0, len(byKey))
	for _, pp := range byKey {
		w, err := normalize(pp.PassCount, max, lineMax)
		if err != nil {
			return nil, err
		}
		pp.LineWidth = w
		pairs = append(pairs, *pp)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].PassCount != pairs[j].PassCount {
			return pairs[i].PassCount > pairs[j].PassCount
		}
		return pairs[i].PairKey < pairs[j].PairKey
	})
	return FilterPairs(pairs, minPassCount), nil
}

// CountUndirectedPairs is ComputeUndirectedPairs without the rendering
// threshold. Density and pass conservation are defined over this set.
func CountUndirectedPairs(events []model.PassEvent, lineMax float64) ([]model.PassPair, error) {
	return ComputeUndirectedPairs(events, 0, lineMax)
}

// FilterPairs keeps pairs with at least minPassCount passes, preserving order.
func FilterPairs(pairs []model.PassPair, minPassCount int) []model.PassPair {
	out := make([]model.PassPair, 0, len(pairs))
	for _, pp := range pairs {
		if pp.PassCount < minPassCount {
			continue
		}
		out = append(out, pp)
	}
	return out
}

// ComputeDirectedPairs counts passes per ordered (passer, recipient) pair and
// normalizes arrow widths against the busiest one. No threshold is applied.
func ComputeDirectedPairs(events []model.PassEvent, arrowMax float64) ([]model.DirectedPassPair, error) {
	if err := Validate(events); err != nil {
		return nil, err
	}

	type edge struct{ from, to string }
	byEdge := make(map[edge]int)
	for _, ev := range events {
		byEdge[edge{ev.Passer, ev.Recipient}]++
	}

	counts := make([]float64, 0, len(byEdge))
	for _, n := range byEdge {
		counts = append(counts, float64(n))
	}
	max := floats.Max(counts)

	pairs := make([]model.DirectedPassPair, 0, len(byEdge))
	for e, n := range byEdge {
		w, err := normalize(n, max, arrowMax)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, model.DirectedPassPair{Passer: e.from, Recipient: e.to, PassCount: n, ArrowWidth: w})
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.PassCount != b.PassCount {
			return a.PassCount > b.PassCount
		}
		if a.Passer != b.Passer {
			return a.Passer < b.Passer
		}
		return a.Recipient < b.Recipient
	})
	return pairs, nil
}

// ComputeCentralization returns Σ(max−c_i) / ((N−1)·Σc_i) over passCounts
// for a roster of rosterSize players. The result is not clamped to [0,1].
func ComputeCentralization(passCounts []int, rosterSize int) (float64, error) {
	if rosterSize <= 1 {
		return 0, fmt.Errorf("centralization with roster size %d: %w", rosterSize, ErrDivisionByZero)
	}
	if len(passCounts) == 0 {
		return 0, fmt.Errorf("centralization: %w", ErrEmptyInput)
	}

	max, total := passCounts[0], 0
	for _, c := range passCounts {
		if c > max {
			max = c
		}
		total += c
	}
	if total == 0 {
		return 0, fmt.Errorf("centralization over zero passes: %w", ErrDivisionByZero)
	}

	var spread int
	for _, c := range passCounts {
		spread += max - c
	}
	return float64(spread) / (float64(rosterSize-1) * float64(total)), nil
}

// ComputeDensity returns observedPairs over the number of possible pairs in a
// roster: N(N−1) when directed, N(N−1)/2 otherwise.
func ComputeDensity(observedPairs, rosterSize int, directed bool) (float64, error) {
	if rosterSize <= 1 {
		return 0, fmt.Errorf("density with roster size %d: %w", rosterSize, ErrDivisionByZero)
	}
	possible := float64(rosterSize * (rosterSize - 1))
	if !directed {
		possible /= 2
	}
	return float64(observedPairs) / possible, nil
}

// ComputeHubInvolvement sums, per player, the passes of every directed pair
// the player appears in as passer or recipient.
func ComputeHubInvolvement(pairs []model.DirectedPassPair) map[string]int {
	hub := make(map[string]int)
	for _, p := range pairs {
		hub[p.Passer] += p.PassCount
		hub[p.Recipient] += p.PassCount
	}
	return hub
}

// RankHubs orders hub involvement descending, ties broken by player.
func RankHubs(hub map[string]int) []model.HubEntry {
	out := make([]model.HubEntry, 0, len(hub))
	for player, n := range hub {
		out = append(out, model.HubEntry{Player: player, Involvement: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Involvement != out[j].Involvement {
			return out[i].Involvement > out[j].Involvement
		}
		return out[i].Player < out[j].Player
	})
	return out
}

func normalize(count int, max, scale float64) (float64, error) {
	if max == 0 {
		return 0, fmt.Errorf("normalize against zero maximum: %w", ErrDivisionByZero)
	}
	return float64(count) / max * scale, nil
}

func finite(p model.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
