package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/network"
	"github.com/pable/go-passnet/internal/report"
	"github.com/pable/go-passnet/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("passnet shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("passnet")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <id-prefix> [--exclude <player>] [--roster <n>] [--min-pair <n>] [--focus <player>]")
				continue
			}
			nc, focus, err := shellNetworkOptions(args[1:])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			shellShow(db, args[0], nc, focus)
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(db, strings.TrimSpace(strings.TrimPrefix(line, "sql"))); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

// shellNetworkOptions parses show's inline options. Player names with spaces
// are written with underscores, e.g. --exclude Keira_Walsh.
func shellNetworkOptions(args []string) (network.Config, string, error) {
	nc := cfg.Network()
	var focus string
	if len(args)%2 != 0 {
		return nc, "", fmt.Errorf("option %q has no value", args[len(args)-1])
	}
	for i := 0; i+1 < len(args); i += 2 {
		val := args[i+1]
		switch args[i] {
		case "--exclude":
			nc.ExcludedPlayer = strings.ReplaceAll(val, "_", " ")
		case "--focus":
			focus = strings.ReplaceAll(val, "_", " ")
		case "--roster":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nc, "", fmt.Errorf("--roster %q: %w", val, err)
			}
			nc.RosterSize = n
		case "--min-pair":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nc, "", fmt.Errorf("--min-pair %q: %w", val, err)
			}
			nc.Thresholds.MinPairPassCount = n
		default:
			return nc, "", fmt.Errorf("unknown option %q", args[i])
		}
	}
	return nc, focus, nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored pass logs"},
		{"show <id-prefix>", "recompute and show a pass log's network"},
		{"show <id-prefix> --exclude <player>", "same, without one player's passes"},
		{"show <id-prefix> --focus <player>", "same, highlighting one player"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	cMuted.Println("  (write spaces in player names as underscores)")
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No pass logs stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-24s  %-24s  %6s\n", "ID", "TEAM", "OPPONENT", "PASSES")
	cMuted.Fprintf(os.Stdout, "%-14s  %-24s  %-24s  %6s\n",
		"──────────────", "────────────────────────", "────────────────────────", "──────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-24s  %-24s  %6d\n",
			report.ShortID(m.ID), m.Team, m.Opponent, m.PassCount)
	}
}

func shellShow(db *storage.DB, prefix string, nc network.Config, focus string) {
	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if m == nil {
		cWarn.Fprintf(os.Stderr, "no pass log found with prefix %q\n", prefix)
		return
	}
	if err := showStored(os.Stdout, db, *m, nc, focus); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
