// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-sync/internal/abstract"
	"github.com/pdiddy/scholar-sync/internal/scholar"
	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/internal/syncer"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new papers for every configured author",
	Long: `Sync loads each author's stored collection, fetches the author's Google
Scholar listing, adds papers within the configured year range that are not
yet stored, and writes the updated collection and Markdown documents.

Shortened abstracts are replaced with the full text from arXiv when the
paper links there, or from OpenAlex when use_openalex is set and the link
carries a DOI. Authors are processed one at a time in config order; a
failing author is reported and the remaining authors are still synced.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("no-render", false, "update stored collections without writing Markdown")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	cfg := rt.Config
	noRender, _ := cmd.Flags().GetBool("no-render")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	userAgent := rt.Secrets.UserAgent(cfg.HTTP.UserAgent)

	resolver := &abstract.Resolver{
		TruncationCheck:  cfg.TruncationCheck,
		SecondaryEnabled: cfg.UseArxiv || cfg.UseOpenAlex,
		Timeout:          cfg.HTTP.AbstractTimeout,
		Log:              rt.Log,
	}
	if cfg.UseArxiv {
		resolver.Sources = append(resolver.Sources, &abstract.ArxivSource{Client: client, UserAgent: userAgent})
	}
	if cfg.UseOpenAlex {
		resolver.Sources = append(resolver.Sources, &abstract.OpenAlexSource{
			Client:    client,
			UserAgent: userAgent,
			Email:     rt.Secrets.ContactEmail(),
		})
	}

	engine := &syncer.Engine{
		Config:   cfg,
		Provider: &scholar.Client{HTTP: client, UserAgent: userAgent},
		Store:    st,
		Resolver: resolver,
		Log:      rt.Log,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := engine.Run(ctx)
	printSummary(cmd, result)

	if !noRender && ctx.Err() == nil {
		if err := renderCollection(ctx, cfg, st, syncedRecords(result), rt.Log); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sync interrupted: %w", err)
	}
	if result.HasFailures() {
		return fmt.Errorf("%d author(s) failed to sync", result.Failed())
	}
	return nil
}

// syncedRecords maps each successfully synced author to its visible records.
func syncedRecords(result syncer.RunResult) map[types.Author][]types.Publication {
	out := make(map[types.Author][]types.Publication, len(result.Authors))
	for _, ar := range result.Authors {
		if ar.Err == nil {
			out[ar.Author] = ar.Records
		}
	}
	return out
}

func printSummary(cmd *cobra.Command, result syncer.RunResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s\n", result.RunID)
	for _, ar := range result.Authors {
		if ar.Err != nil {
			fmt.Fprintf(w, "  %-30s FAILED: %v\n", ar.Author.Name, ar.Err)
			continue
		}
		fmt.Fprintf(w, "  %-30s %s: %d new, %d total (%d scanned)\n",
			ar.Author.Name, ar.Mode, ar.Added, ar.Total, ar.Counts.Total())
	}
}
