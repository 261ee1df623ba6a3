package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finscope/finscope/internal/llm"
	"github.com/finscope/finscope/internal/session"
	"github.com/finscope/finscope/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask <question>...",
		Short: "Ask a follow-up question grounded in a saved analysis artifact",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	cmd.Flags().StringP("artifact", "a", "", "Path to the analysis artifact JSON (required)")
	cmd.MarkFlagRequired("artifact")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	artifactPath, _ := cmd.Flags().GetString("artifact")
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		exitErr("read artifact", err)
	}

	var artifact types.AnalysisArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		exitErr("parse artifact", err)
	}

	provider, err := llm.NewFromConfig(cfg.LLM, logger)
	if err != nil {
		exitErr("create text-generation provider", err)
	}

	question := strings.Join(args, " ")
	answer, err := session.New(provider, logger).Ask(cmd.Context(), &artifact, question)
	if err != nil {
		exitErr("ask", err)
	}
	fmt.Println(answer)
}
