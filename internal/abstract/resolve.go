// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstract replaces shortened abstracts with the full text from a
// secondary source when one is available for the publication link.
package abstract

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-sync/internal/textnorm"
)

// DefaultTimeout bounds one secondary lookup.
const DefaultTimeout = 10 * time.Second

// ErrNoAbstract is returned by a Source that answered but had no abstract.
var ErrNoAbstract = errors.New("no abstract in response")

// Source looks up the full abstract for a publication link.
type Source interface {
	Name() string
	// Matches reports whether the link belongs to this source.
	Matches(link string) bool
	Lookup(ctx context.Context, link string) (string, error)
}

// Resolver decides whether a short abstract should be replaced.
type Resolver struct {
	// TruncationCheck enables detection of shortened abstracts. When false
	// Resolve always returns the short text.
	TruncationCheck bool

	// SecondaryEnabled enables lookups against Sources.
	SecondaryEnabled bool

	// Sources are tried in order; the first one matching the link is used.
	Sources []Source

	// Timeout bounds a lookup. Zero means DefaultTimeout.
	Timeout time.Duration

	Log zerolog.Logger
}

// Resolve returns the full abstract for link when short is truncated and a
// matching source supplies one, and short otherwise. Lookup failures are
// logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, link, short string) string {
	return r.ResolveWith(ctx, link, short, r.TruncationCheck, r.SecondaryEnabled)
}

// ResolveWith is Resolve with per-call switches for the truncation check and
// the secondary source.
func (r *Resolver) ResolveWith(ctx context.Context, link, short string, truncationCheck, secondaryEnabled bool) string {
	if !truncationCheck || !textnorm.IsTruncated(short) {
		return short
	}

	r.Log.Info().Str("link", link).Msg("truncated abstract detected, checking secondary source")

	if secondaryEnabled {
		if src := r.sourceFor(link); src != nil {
			if full := r.lookup(ctx, src, link); full != "" {
				r.Log.Info().Str("source", src.Name()).Msg("full abstract retrieved")
				return full
			}
		}
	}

	r.Log.Warn().Str("link", link).Msg("full abstract not found, using shortened version")
	return short
}

func (r *Resolver) sourceFor(link string) Source {
	for _, s := range r.Sources {
		if s.Matches(link) {
			return s
		}
	}
	return nil
}

func (r *Resolver) lookup(ctx context.Context, src Source, link string) string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full, err := src.Lookup(ctx, link)
	if err != nil {
		r.Log.Debug().Err(err).Str("source", src.Name()).Msg("abstract lookup failed")
		return ""
	}
	return textnorm.Clean(full)
}
