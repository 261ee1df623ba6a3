package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finscope/finscope/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "resolve [query]",
		Short: "Resolve a name or symbol to canonical company identities",
		Long:  "Resolves a query to canonical company identities. With no query, lists the full registry.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runResolve,
	}
	RootCmd.AddCommand(cmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	newLogger(cfg)

	res := newResolver(cfg)

	var matches []types.CompanyIdentity
	if len(args) == 0 {
		matches = res.Identities()
	} else {
		matches = res.Resolve(args[0])
		if len(matches) == 0 {
			fmt.Printf("No companies match %q\n", args[0])
			return
		}
	}

	for _, id := range matches {
		line := fmt.Sprintf("%-6s %-10s %s", id.Ticker, id.RegistryID, id.CanonicalName)
		if len(id.RegistryAliases) > 0 {
			line += fmt.Sprintf(" (aliases: %s)", strings.Join(id.RegistryAliases, ", "))
		}
		fmt.Println(line)
	}
}
