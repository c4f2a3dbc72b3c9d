// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-sync/internal/render"
	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-render Markdown from stored collections",
	Long: `Render rebuilds every author's Markdown document and the combined
document from stored state without contacting any remote source.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(rt.Config.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	return renderCollection(cmd.Context(), rt.Config, st, nil, rt.Log)
}

// renderCollection writes one document per configured author and the
// combined document. Records for an author come from synced when present
// and from st otherwise. Authors whose state cannot be loaded are left out
// of the combined document and reported after the rest are written.
func renderCollection(ctx context.Context, cfg types.SyncConfig, st store.Store, synced map[types.Author][]types.Publication, log zerolog.Logger) error {
	w := render.Writer{Config: cfg.Output}
	sections := make([]render.Section, 0, len(cfg.Authors))
	var failed int

	for _, author := range cfg.Authors {
		records, ok := synced[author]
		if !ok {
			stored, err := st.Load(ctx, author)
			if err != nil {
				log.Error().Err(err).Str("author", author.Name).Msg("could not load stored papers")
				failed++
				continue
			}
			records = visible(cfg, stored)
		}

		doc := render.Markdown(author.Name, cfg.YearStart, cfg.YearEnd, records)
		path, err := w.WriteAuthor(author, doc)
		if err != nil {
			return err
		}
		log.Info().Str("author", author.Name).Str("path", path).Int("papers", len(records)).Msg("author document written")
		sections = append(sections, render.Section{Name: author.Name, Records: records})
	}

	path, err := w.WriteCombined(render.Combined(cfg.YearStart, cfg.YearEnd, sections))
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("authors", len(sections)).Msg("combined document written")

	if failed > 0 {
		return fmt.Errorf("%d author(s) could not be rendered", failed)
	}
	return nil
}

// visible returns stored records sorted newest first and limited to the
// configured year range.
func visible(cfg types.SyncConfig, records []types.Publication) []types.Publication {
	sorted := store.SortByYear(records)
	out := sorted[:0]
	for _, p := range sorted {
		if cfg.InRange(p.Year) {
			out = append(out, p)
		}
	}
	return out
}
