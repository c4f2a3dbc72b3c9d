// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncer merges an author's remote publication listing into the
// stored collection. Authors without stored state get a full scan of the
// listing; authors with state get a bounded rescan of the newest entries,
// skipping titles already stored.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/internal/textnorm"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

// unknownTitle names a publication whose detail page has no title.
const unknownTitle = "Unknown Title"

// Provider lists a profile's publications and fills single entries.
type Provider interface {
	ListPublications(ctx context.Context, authorID string, limit int) ([]types.PublicationRef, error)
	FillPublication(ctx context.Context, ref types.PublicationRef) (types.PublicationDetail, error)
}

// AbstractResolver returns the abstract to store for a publication.
type AbstractResolver interface {
	Resolve(ctx context.Context, link, short string) string
}

// Engine syncs the configured authors one at a time.
type Engine struct {
	Config   types.SyncConfig
	Provider Provider
	Store    store.Store
	Resolver AbstractResolver
	Log      zerolog.Logger
}

// Run syncs every configured author in order. An author that fails is
// recorded in its AuthorResult and the run continues with the next one.
// Cancelling ctx stops the run; remaining authors are not attempted.
func (e *Engine) Run(ctx context.Context) RunResult {
	result := RunResult{RunID: uuid.NewString()}
	log := e.Log.With().Str("run_id", result.RunID).Logger()

	for _, author := range e.Config.Authors {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("run cancelled")
			break
		}

		ar, err := e.syncAuthor(ctx, author, log)
		if err != nil {
			log.Error().Err(err).Str("author", author.Name).Msg("author sync failed")
			ar.Err = err
		}
		result.Authors = append(result.Authors, ar)
	}
	return result
}

// SyncAuthor syncs one author. It returns an error only when the author as a
// whole could not be synced: state could not be loaded or saved, the listing
// could not be fetched, or ctx was cancelled. Failures of single listing
// entries are counted in the result.
func (e *Engine) SyncAuthor(ctx context.Context, author types.Author) (AuthorResult, error) {
	return e.syncAuthor(ctx, author, e.Log)
}

func (e *Engine) syncAuthor(ctx context.Context, author types.Author, parent zerolog.Logger) (AuthorResult, error) {
	log := parent.With().Str("author", author.Name).Str("author_id", author.ID).Logger()
	res := AuthorResult{Author: author, Counts: Counts{}}

	existing, err := e.Store.Load(ctx, author)
	if err != nil {
		return res, fmt.Errorf("loading state: %w", err)
	}
	if len(existing) > 0 {
		res.Mode = ModeIncremental
	}

	window := e.Config.Window(res.Mode == ModeIncremental)
	log.Info().Str("mode", res.Mode.String()).Int("stored", len(existing)).Msg("fetching papers")

	refs, err := e.Provider.ListPublications(ctx, author.ID, window)
	if err != nil {
		return res, fmt.Errorf("listing publications: %w", err)
	}
	if len(refs) > window {
		refs = refs[:window]
	}
	if res.Mode == ModeIncremental && e.Config.IncrementalMode {
		log.Info().Int("limit", window).Msg("incremental mode: checking newest papers only")
	}
	log.Info().Int("candidates", len(refs)).Msg("papers listed")

	known := store.Titles(existing)
	var added []types.Publication
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			// Partial results are dropped: saving them would switch the
			// author to incremental mode with the older entries unscanned.
			return res, err
		}

		log.Info().Msgf("(%d/%d) loading paper details", i+1, len(refs))
		pub, out := e.processCandidate(ctx, ref, res.Mode, known)
		res.Counts[out.Status]++
		logOutcome(log, out)
		if out.Status == StatusAdded {
			added = append(added, pub)
		}
	}

	merged := store.Merge(existing, added)
	if err := e.Store.Save(ctx, author, merged); err != nil {
		return res, fmt.Errorf("saving state: %w", err)
	}

	res.Added = len(merged) - len(store.Merge(existing, nil))
	res.Total = len(merged)
	res.Records = e.inRange(store.SortByYear(merged))

	log.Info().Int("added", res.Added).Int("total", res.Total).Msg("author synced")
	return res, nil
}

// processCandidate runs one listing entry through detail fetch, year
// filter, known-title check and abstract resolution. It never panics; a
// panic from the provider is reported as a failed outcome.
func (e *Engine) processCandidate(ctx context.Context, ref types.PublicationRef, mode Mode, known map[string]bool) (pub types.Publication, out Outcome) {
	out.Title = ref.Title
	defer func() {
		if r := recover(); r != nil {
			pub = types.Publication{}
			out = Outcome{Status: StatusFailed, Title: ref.Title, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	detail, err := e.Provider.FillPublication(ctx, ref)
	if err != nil {
		return pub, Outcome{Status: StatusFailed, Title: ref.Title, Err: err}
	}

	year, ok := parseYear(detail.PubYear)
	if !ok {
		return pub, Outcome{Status: StatusNoYear, Title: ref.Title}
	}
	if !e.Config.InRange(year) {
		return pub, Outcome{Status: StatusOutOfRange, Title: ref.Title}
	}

	title := strings.TrimSpace(detail.Title)
	if title == "" {
		title = unknownTitle
	}
	if mode == ModeIncremental && known[title] {
		return pub, Outcome{Status: StatusKnown, Title: title}
	}

	short := textnorm.Clean(detail.Abstract)
	pub = types.Publication{
		Year:     year,
		Title:    title,
		Abstract: e.Resolver.Resolve(ctx, detail.Link, short),
		Link:     detail.Link,
	}
	return pub, Outcome{Status: StatusAdded, Title: title}
}

// parseYear converts a raw pub_year field. Empty or non-integer values are
// rejected.
func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return year, true
}

func (e *Engine) inRange(records []types.Publication) []types.Publication {
	out := make([]types.Publication, 0, len(records))
	for _, p := range records {
		if e.Config.InRange(p.Year) {
			out = append(out, p)
		}
	}
	return out
}

func logOutcome(log zerolog.Logger, out Outcome) {
	switch out.Status {
	case StatusAdded:
		log.Info().Str("title", out.Title).Msg("paper added")
	case StatusKnown:
		log.Info().Str("title", out.Title).Msg("already exists, skipped")
	case StatusFailed:
		log.Warn().Err(out.Err).Str("title", out.Title).Msg("failed to load paper")
	default:
		log.Debug().Str("title", out.Title).Str("reason", out.Status.String()).Msg("paper skipped")
	}
}
