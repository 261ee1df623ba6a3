package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finscope/finscope/internal/analyzer"
	"github.com/finscope/finscope/internal/llm"
	"github.com/finscope/finscope/internal/sources"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <ticker-or-query>",
		Short: "Fetch a registry filing and produce a structured analysis",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}

	cmd.Flags().String("accession", "", "Filing accession number (required)")
	cmd.Flags().String("form", "", "Primary document name within the filing (required)")
	cmd.Flags().StringP("out", "o", "", "Write the analysis artifact JSON to a file")

	cmd.MarkFlagRequired("accession")
	cmd.MarkFlagRequired("form")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	matches := newResolver(cfg).Resolve(args[0])
	if len(matches) == 0 {
		exitErr("resolve company", fmt.Errorf("no company matches %q", args[0]))
	}
	identity := matches[0]

	accession, _ := cmd.Flags().GetString("accession")
	form, _ := cmd.Flags().GetString("form")

	filings := sources.NewFilingsClient(cfg.Filings.UserAgent, logger)
	doc, err := filings.FetchDocument(cmd.Context(), identity.RegistryID, accession, form)
	if err != nil {
		exitErr("fetch filing", err)
	}

	provider, err := llm.NewFromConfig(cfg.LLM, logger)
	if err != nil {
		exitErr("create text-generation provider", err)
	}

	sections := analyzer.ExtractSections(doc)
	artifact, err := analyzer.New(provider, logger).Analyze(cmd.Context(), sections)
	if err != nil {
		exitErr("analyze filing", err)
	}

	out, _ := json.MarshalIndent(artifact, "", "  ")
	fmt.Println(string(out))

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			exitErr("write artifact", err)
		}
		fmt.Fprintf(os.Stderr, "Artifact written to %s\n", outPath)
	}
}
