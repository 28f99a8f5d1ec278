package model

import "time"

// Format identifies the provider an event log was read from.
type Format string

const (
	FormatStatsBomb Format = "statsbomb"
	FormatWyscout   Format = "wyscout"
)

// Pitch dimensions used for every coordinate in this package (StatsBomb units).
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
)

// Point is a 2D pitch coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the unweighted average of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// ---- Raw events emitted by the parser ----

// RawEvent is one provider event reduced to the fields the pass filter needs.
// Empty strings mean the provider left the field null.
type RawEvent struct {
	Index       int
	Period      int
	Minute      int
	MatchID     string
	Type        string // "Pass", "Substitution", "Shot", ...
	SubType     string // pass type for StatsBomb ("Throw-in"), sub-event for Wyscout
	Outcome     string // "" for successful passes
	Team        string
	Player      string
	Recipient   string
	Location    *Point
	EndLocation *Point
}

// PassEvent is one observed completed pass. Never mutated after construction.
type PassEvent struct {
	Index       int    `json:"index"`
	Minute      int    `json:"minute"`
	Passer      string `json:"passer"`
	Recipient   string `json:"recipient"`
	Origin      Point  `json:"origin"`
	Destination Point  `json:"destination"`
}

// ---- Derived network entities ----

// PlayerPosition is one node of the pass network.
type PlayerPosition struct {
	Player                   string  `json:"player"`
	MeanOriginPassing        Point   `json:"mean_origin_passing"`
	MeanDestinationReceiving Point   `json:"mean_destination_receiving"`
	MeanPosition             Point   `json:"mean_position"`
	PassCount                int     `json:"pass_count"`
	MarkerSize               float64 `json:"marker_size"`
}

// PassPair is an undirected edge between two players.
type PassPair struct {
	PairKey   string  `json:"pair_key"`
	PlayerA   string  `json:"player_a"`
	PlayerB   string  `json:"player_b"`
	PassCount int     `json:"pass_count"`
	LineWidth float64 `json:"line_width"`
}

// DirectedPassPair is an ordered passer → recipient edge.
type DirectedPassPair struct {
	Passer     string  `json:"passer"`
	Recipient  string  `json:"recipient"`
	PassCount  int     `json:"pass_count"`
	ArrowWidth float64 `json:"arrow_width"`
}

// HubEntry is one row of the hub ranking.
type HubEntry struct {
	Player      string `json:"player"`
	Involvement int    `json:"involvement"`
}

// NetworkMetrics holds the scalar network measures.
type NetworkMetrics struct {
	RosterSize             int            `json:"roster_size"`
	CentralizationIndex    float64        `json:"centralization_index"`
	DirectedDensity        float64        `json:"directed_density"`
	UndirectedDensity      float64        `json:"undirected_density"`
	ObservedOrderedPairs   int            `json:"observed_ordered_pairs"`
	ObservedUnorderedPairs int            `json:"observed_unordered_pairs"`
	HubInvolvement         map[string]int `json:"hub_involvement"`
}

// Network is the full result of one analysis run.
type Network struct {
	ExcludedPlayer string             `json:"excluded_player,omitempty"`
	PassCount      int                `json:"pass_count"`
	Positions      []PlayerPosition   `json:"positions"`
	Pairs          []PassPair         `json:"pairs"`
	DirectedPairs  []DirectedPassPair `json:"directed_pairs"`
	Metrics        NetworkMetrics     `json:"metrics"`
	Hubs           []HubEntry         `json:"hubs"`
}

// ---- Stored pass logs ----

// Match describes one imported, filtered pass log.
type Match struct {
	ID          string // sha256 of the MatchKey: source, format, team, cutoff and surname modes, lookup-file hashes
	SourceHash  string
	Format      Format
	MatchID     string
	Team        string
	Opponent    string
	Label       string
	CutoffIndex int // -1 when no substitution cutoff was applied
	PassCount   int
	ImportedAt  time.Time
}

// Overview summarises the whole store.
type Overview struct {
	TotalMatches int
	TotalPasses  int
	UniqueTeams  int
	Players      int
}
