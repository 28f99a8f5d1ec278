package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/model"
)

var (
	exportAnalysis analysisFlags
	exportOut      string
)

// exportDoc is the JSON document written by `passnet export`.
type exportDoc struct {
	Match       exportMatch    `json:"match"`
	GeneratedAt string         `json:"generated_at"`
	Network     *model.Network `json:"network"`
}

type exportMatch struct {
	ID          string `json:"id"`
	Format      string `json:"format"`
	MatchID     string `json:"match_id,omitempty"`
	Team        string `json:"team"`
	Opponent    string `json:"opponent,omitempty"`
	Label       string `json:"label"`
	CutoffIndex int    `json:"cutoff_index"`
}

var exportCmd = &cobra.Command{
	Use:   "export <id-prefix>",
	Short: "Export a stored pass log's network as JSON",
	Long: `Recompute the network of a stored pass log and write it as JSON, for plotting
or further analysis elsewhere. Positions are in pitch coordinates
(120 x 80); marker, line and arrow sizes are already scaled.

Example:
  passnet export 3fa9c2 --exclude "Keira Walsh" --out england-no-walsh.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportAnalysis.register(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil {
		return err
	}
	passes, err := db.GetPasses(m.ID)
	if err != nil {
		return fmt.Errorf("get passes: %w", err)
	}
	net, err := computeNetwork(exportAnalysis.networkConfig(cmd), passes)
	if err != nil {
		return err
	}

	doc := exportDoc{
		Match: exportMatch{
			ID: m.ID, Format: string(m.Format), MatchID: m.MatchID, Team: m.Team,
			Opponent: m.Opponent, Label: m.Label, CutoffIndex: m.CutoffIndex,
		},
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Network:     net,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if exportOut == "" {
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d nodes, %d edges)\n", exportOut, len(net.Positions), len(net.Pairs))
	return nil
}
