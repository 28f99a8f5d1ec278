package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-passnet/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// ShortID returns the first 12 characters of a stored match id.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// PrintMatchHeader prints a one-line summary header for a stored pass log.
func PrintMatchHeader(w io.Writer, m model.Match) {
	cutoff := "none"
	if m.CutoffIndex >= 0 {
		cutoff = fmt.Sprintf("before event %d", m.CutoffIndex)
	}
	fmt.Fprintf(w, "\nTeam: %s  |  vs %s  |  Source: %s (%s)  |  Cutoff: %s  |  Passes: %d  |  ID: %s\n\n",
		m.Team, orDash(m.Opponent), m.Label, m.Format, cutoff, m.PassCount, ShortID(m.ID))
}

// PrintMatchList prints the stored pass logs, one per line.
func PrintMatchList(w io.Writer, matches []model.Match) {
	fmt.Fprintf(w, "%-14s  %-24s  %-24s  %-10s  %6s  %s\n",
		"ID", "TEAM", "OPPONENT", "FORMAT", "PASSES", "IMPORTED")
	fmt.Fprintf(w, "%-14s  %-24s  %-24s  %-10s  %6s  %s\n",
		"──────────────", "────────────────────────", "────────────────────────", "──────────", "──────", "────────────────")
	for _, m := range matches {
		fmt.Fprintf(w, "%-14s  %-24s  %-24s  %-10s  %6d  %s\n",
			ShortID(m.ID), m.Team, orDash(m.Opponent), m.Format, m.PassCount,
			m.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
}

// PrintNetwork prints the metrics block followed by every network table.
// If focus is non-empty, that player's rows are marked with ">".
func PrintNetwork(w io.Writer, net *model.Network, focus string) {
	PrintMetrics(w, net)
	PrintNodeTable(w, net.Positions, focus)
	PrintPairTable(w, net.Pairs, focus)
	PrintDirectedTable(w, net.DirectedPairs, focus)
	PrintHubTable(w, net.Hubs, focus)
}

// PrintMetrics prints the scalar network measures.
func PrintMetrics(w io.Writer, net *model.Network) {
	m := net.Metrics
	fmt.Fprintf(w, "Passes analysed      : %d\n", net.PassCount)
	if net.ExcludedPlayer != "" {
		fmt.Fprintf(w, "Excluded player      : %s\n", net.ExcludedPlayer)
	}
	fmt.Fprintf(w, "Roster size          : %d\n", m.RosterSize)
	fmt.Fprintf(w, "Centralization index : %.3f\n", m.CentralizationIndex)
	fmt.Fprintf(w, "Directed density     : %.3f  (%d ordered pairs)\n", m.DirectedDensity, m.ObservedOrderedPairs)
	fmt.Fprintf(w, "Undirected density   : %.3f  (%d unordered pairs)\n", m.UndirectedDensity, m.ObservedUnorderedPairs)
	if len(net.Hubs) > 0 {
		fmt.Fprintf(w, "Hub                  : %s (%d passes involved)\n", net.Hubs[0].Player, net.Hubs[0].Involvement)
	}
	fmt.Fprintln(w)
}

// PrintNodeTable prints one row per network node.
// Columns: PLAYER | PASSES | X | Y | PASS_X | PASS_Y | RECV_X | RECV_Y | MARKER
func PrintNodeTable(w io.Writer, positions []model.PlayerPosition, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "PASSES", "X", "Y", "PASS_X", "PASS_Y", "RECV_X", "RECV_Y", "MARKER")
	for _, p := range positions {
		table.Append(
			marker(focus, p.Player),
			p.Player,
			strconv.Itoa(p.PassCount),
			fmt.Sprintf("%.1f", p.MeanPosition.X),
			fmt.Sprintf("%.1f", p.MeanPosition.Y),
			fmt.Sprintf("%.1f", p.MeanOriginPassing.X),
			fmt.Sprintf("%.1f", p.MeanOriginPassing.Y),
			fmt.Sprintf("%.1f", p.MeanDestinationReceiving.X),
			fmt.Sprintf("%.1f", p.MeanDestinationReceiving.Y),
			fmt.Sprintf("%.0f", p.MarkerSize),
		)
	}
	table.Render()
}

// PrintPairTable prints the rendered undirected edges.
func PrintPairTable(w io.Writer, pairs []model.PassPair, focus string) {
	if len(pairs) == 0 {
		fmt.Fprintln(w, "No player pair reached the edge threshold.")
		return
	}
	table := newTable(w)
	table.Header(" ", "PAIR", "PASSES", "WIDTH")
	for _, p := range pairs {
		m := marker(focus, p.PlayerA)
		if m == " " {
			m = marker(focus, p.PlayerB)
		}
		table.Append(m, p.PlayerA+" – "+p.PlayerB, strconv.Itoa(p.PassCount), fmt.Sprintf("%.2f", p.LineWidth))
	}
	table.Render()
}

// PrintDirectedTable prints every ordered passer → recipient edge.
func PrintDirectedTable(w io.Writer, pairs []model.DirectedPassPair, focus string) {
	table := newTable(w)
	table.Header(" ", "PASSER", "RECIPIENT", "PASSES", "ARROW")
	for _, p := range pairs {
		m := marker(focus, p.Passer)
		if m == " " {
			m = marker(focus, p.Recipient)
		}
		table.Append(m, p.Passer, p.Recipient, strconv.Itoa(p.PassCount), fmt.Sprintf("%.2f", p.ArrowWidth))
	}
	table.Render()
}

// PrintHubTable prints the hub ranking with each player's share of all
// involvements.
func PrintHubTable(w io.Writer, hubs []model.HubEntry, focus string) {
	var total int
	for _, h := range hubs {
		total += h.Involvement
	}
	table := newTable(w)
	table.Header(" ", "RANK", "PLAYER", "INVOLVED", "SHARE")
	for i, h := range hubs {
		share := "—"
		if total > 0 {
			share = fmt.Sprintf("%.0f%%", float64(h.Involvement)/float64(total)*100)
		}
		table.Append(marker(focus, h.Player), strconv.Itoa(i+1), h.Player, strconv.Itoa(h.Involvement), share)
	}
	table.Render()
}

func marker(focus, player string) string {
	if focus != "" && focus == player {
		return ">"
	}
	return " "
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
