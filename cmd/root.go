package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-passnet/internal/config"
	"github.com/pable/go-passnet/internal/logger"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// cfg is loaded once per invocation by the root PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "passnet",
	Short: "Soccer pass-network metrics tool",
	Long: `Extract a team's completed passes from StatsBomb or Wyscout event logs and
compute its pass network: average player positions, pair and directed edge
weights, centralization, density and hub players.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.passnet/passnet.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $PASSNET_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers config file and env, then lets explicit flags win.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	dbPath = c.DBPath
	cfg = c

	logger.Init(cfg.LogLevel, cfg.LogFormat, nil)
	logger.WithComponent("cmd").WithFields(logrus.Fields{
		"command": cmd.Name(),
		"db":      cfg.DBPath,
	}).Debug("config loaded")
	return nil
}
