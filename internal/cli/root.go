// Package cli implements the finscope CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/common"
	"github.com/finscope/finscope/internal/config"
	"github.com/finscope/finscope/internal/resolver"
	"github.com/finscope/finscope/internal/types"
)

var (
	configPath string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "finscope",
	Short: "Corporate event aggregation and grounded filing analysis",
	Long:  "Aggregates earnings reports, transcripts and registry filings into one event stream and runs grounded AI analysis over filing documents.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func loadConfig() *config.Config {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) arbor.ILogger {
	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	return common.InitLogger(level)
}

func newResolver(cfg *config.Config) *resolver.Resolver {
	var extra []types.CompanyIdentity
	for _, row := range cfg.Companies {
		identity, err := types.NewCompanyIdentity(row.Name, row.Ticker, row.RegistryID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping company %q: %v\n", row.Ticker, err)
			continue
		}
		extra = append(extra, identity)
	}
	return resolver.New(extra...)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
