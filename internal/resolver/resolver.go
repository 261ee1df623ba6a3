/*
Package resolver maps free-text queries and symbols to canonical company
identities backed by a static registry table.
*/
package resolver

import (
	"strings"

	"github.com/finscope/finscope/internal/types"
)

// registryRow is one raw row of the company table before identity folding.
type registryRow struct {
	Name       string
	Ticker     string
	RegistryID string
}

// builtinRegistry is the default company table. Rows sharing a ticker fold
// into one identity; the first row's registry id is primary and later ids
// become aliases (registries occasionally issue a new id to the same ticker).
var builtinRegistry = []registryRow{
	{"Apple Inc.", "AAPL", "320193"},
	{"Microsoft Corporation", "MSFT", "789019"},
	{"NVIDIA Corporation", "NVDA", "1045810"},
	{"Alphabet Inc.", "GOOGL", "1652044"},
	{"Amazon.com, Inc.", "AMZN", "1018724"},
	{"Meta Platforms, Inc.", "META", "1326801"},
	{"Tesla, Inc.", "TSLA", "1318605"},
	{"Broadcom Inc.", "AVGO", "1730168"},
	{"Broadcom Inc.", "AVGO", "1649338"},
	{"Advanced Micro Devices, Inc.", "AMD", "2488"},
	{"Intel Corporation", "INTC", "50863"},
	{"International Business Machines Corporation", "IBM", "51143"},
	{"Oracle Corporation", "ORCL", "1341439"},
	{"Netflix, Inc.", "NFLX", "1065280"},
	{"Salesforce, Inc.", "CRM", "1108524"},
}

// Resolver performs pure lookups against its registry. It holds no mutable
// state after construction.
type Resolver struct {
	identities []types.CompanyIdentity
}

// New builds a resolver from the built-in registry plus any extra rows.
// Rows that fail identity validation are skipped.
func New(extra ...types.CompanyIdentity) *Resolver {
	r := &Resolver{}

	for _, row := range builtinRegistry {
		r.add(row.Name, row.Ticker, row.RegistryID)
	}
	for _, id := range extra {
		r.add(id.CanonicalName, id.Ticker, id.RegistryID)
	}
	return r
}

func (r *Resolver) add(name, ticker, registryID string) {
	identity, err := types.NewCompanyIdentity(name, ticker, registryID)
	if err != nil {
		return
	}
	for i := range r.identities {
		if r.identities[i].Ticker == identity.Ticker {
			r.identities[i].AddRegistryAlias(identity.RegistryID)
			return
		}
	}
	r.identities = append(r.identities, identity)
}

// Resolve returns the identities matching the query: exact ticker matches
// first, then ticker- or name-substring matches, each group in table order.
// The match is case-insensitive. An empty result is a normal outcome, not an
// error.
func (r *Resolver) Resolve(query string) []types.CompanyIdentity {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var exact, partial []types.CompanyIdentity
	for _, id := range r.identities {
		switch {
		case id.Ticker == q:
			exact = append(exact, id)
		case strings.Contains(id.Ticker, q),
			strings.Contains(strings.ToUpper(id.CanonicalName), q):
			partial = append(partial, id)
		}
	}
	return append(exact, partial...)
}

// Identities returns every identity in the registry, in table order.
func (r *Resolver) Identities() []types.CompanyIdentity {
	out := make([]types.CompanyIdentity, len(r.identities))
	copy(out, r.identities)
	return out
}
