package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finscope/finscope/internal/aggregator"
	"github.com/finscope/finscope/internal/notify"
	"github.com/finscope/finscope/internal/sources"
	"github.com/finscope/finscope/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "events <query>...",
		Short: "Aggregate corporate events for one or more companies",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEvents,
	}

	cmd.Flags().String("from", "", "Window start (YYYY-MM-DD, default 90 days ago)")
	cmd.Flags().String("to", "", "Window end (YYYY-MM-DD, default 90 days ahead)")
	cmd.Flags().Bool("email", false, "Send the digest via the configured SMTP account")

	RootCmd.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	window, err := parseWindow(cmd)
	if err != nil {
		exitErr("parse window", err)
	}

	res := newResolver(cfg)
	var identities []types.CompanyIdentity
	seen := make(map[string]bool)
	for _, query := range args {
		for _, id := range res.Resolve(query) {
			if !seen[id.Ticker] {
				seen[id.Ticker] = true
				identities = append(identities, id)
			}
		}
	}
	if len(identities) == 0 {
		fmt.Println("No companies matched the given queries.")
		return
	}

	agg := aggregator.New(logger,
		sources.NewFilingsClient(cfg.Filings.UserAgent, logger),
		sources.NewCalendarClient(cfg.Calendar.APIKey, logger),
		sources.NewTranscriptClient(cfg.Calendar.APIKey, logger),
	)

	events, failures := agg.Aggregate(cmd.Context(), identities, window)
	digest := notify.FormatDigest(events, failures, nil)
	fmt.Print(digest)

	sendEmail, _ := cmd.Flags().GetBool("email")
	if sendEmail {
		sender := notify.NewEmailSender(cfg.Email, logger)
		subject := fmt.Sprintf("finscope digest: %d events", len(events))
		if err := sender.Send(subject, digest); err != nil {
			exitErr("send digest", err)
		}
	}
}

func parseWindow(cmd *cobra.Command) (sources.Window, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	window := sources.Window{
		From: time.Now().AddDate(0, 0, -90),
		To:   time.Now().AddDate(0, 0, 90),
	}
	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return sources.Window{}, fmt.Errorf("invalid from date %q: %w", fromStr, err)
		}
		window.From = from
	}
	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return sources.Window{}, fmt.Errorf("invalid to date %q: %w", toStr, err)
		}
		window.To = to
	}
	return window, nil
}
