package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the pass-log database",
	Long: `Run an arbitrary SQL query against the pass-log database and print results as a table.

Schema overview:
  matches(id, source_hash, format, match_id, team, opponent, label,
    cutoff_index, pass_count, imported_at)
  passes(match_id, seq, event_index, minute, passer, recipient,
    origin_x, origin_y, dest_x, dest_y)

Example:
  passnet sql "SELECT passer, COUNT(*) FROM passes GROUP BY passer ORDER BY 2 DESC"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(db, strings.Join(args, " "))
}

func printQuery(db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
