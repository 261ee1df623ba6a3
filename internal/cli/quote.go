package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finscope/finscope/internal/sources"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch the current price snapshot for a symbol",
		Args:  cobra.ExactArgs(1),
		Run:   runQuote,
	}
	RootCmd.AddCommand(cmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	symbol := strings.ToUpper(args[0])
	quote, err := sources.NewQuoteClient(cfg.Calendar.APIKey, logger).FetchQuote(cmd.Context(), symbol)
	if err != nil {
		exitErr("fetch quote", err)
	}

	fmt.Printf("%s  %.2f (open %.2f, high %.2f, low %.2f, prev close %.2f) at %s\n",
		quote.Symbol,
		quote.Current,
		quote.Open,
		quote.High,
		quote.Low,
		quote.PreviousClose,
		quote.Timestamp.Format("2006-01-02 15:04:05 MST"),
	)
}
