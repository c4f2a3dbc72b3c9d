// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import "github.com/pdiddy/scholar-sync/pkg/types"

// Mode is the sync mode of one author, fixed when its state is loaded.
type Mode int

const (
	// ModeFirstRun applies when nothing is stored for the author.
	ModeFirstRun Mode = iota
	// ModeIncremental applies when stored state exists.
	ModeIncremental
)

func (m Mode) String() string {
	switch m {
	case ModeFirstRun:
		return "first-run"
	case ModeIncremental:
		return "incremental"
	default:
		return "unknown"
	}
}

// Status is the result of processing one listing entry.
type Status int

const (
	StatusAdded Status = iota
	StatusNoYear
	StatusOutOfRange
	StatusKnown
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusNoYear:
		return "no-year"
	case StatusOutOfRange:
		return "out-of-range"
	case StatusKnown:
		return "known"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one listing entry.
type Outcome struct {
	Status Status
	Title  string
	Err    error
}

// Counts tallies outcomes by status.
type Counts map[Status]int

// Total returns the number of entries processed.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// AuthorResult is the outcome of syncing one author.
type AuthorResult struct {
	Author types.Author
	Mode   Mode

	// Added is the number of records new to the stored collection.
	Added int
	// Total is the size of the stored collection after the save.
	Total int

	// Records is the stored collection limited to the configured year range,
	// newest first. Storage may hold records outside the range.
	Records []types.Publication

	Counts Counts

	// Err is set when the author could not be synced at all.
	Err error
}

// RunResult is the outcome of syncing every configured author.
type RunResult struct {
	RunID   string
	Authors []AuthorResult
}

// Failed returns the number of authors that could not be synced.
func (r RunResult) Failed() int {
	n := 0
	for _, a := range r.Authors {
		if a.Err != nil {
			n++
		}
	}
	return n
}

// HasFailures reports whether any author failed.
func (r RunResult) HasFailures() bool {
	return r.Failed() > 0
}
