// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for scholar-sync.
package types

// Publication is one stored entry of an author's publication list.
// Title is the identity key within one author's collection.
type Publication struct {
	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Title is the publication title, compared exactly and case-sensitively.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract text, possibly the full version from arXiv.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Link is the canonical publication URL reported by the profile source.
	Link string `json:"link" yaml:"link"`
}

// Author is a tracked profile. ID is the opaque profile identifier used by
// the remote source; Name is the display name.
type Author struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// String returns "name (id)".
func (a Author) String() string {
	return a.Name + " (" + a.ID + ")"
}

// PublicationRef is one entry of a profile's publication listing, before its
// detail page has been fetched.
type PublicationRef struct {
	// Title is the title shown in the listing.
	Title string `json:"title" yaml:"title"`

	// DetailURL locates the detail page for the entry.
	DetailURL string `json:"detail_url" yaml:"detail_url"`
}

// PublicationDetail holds the bibliographic fields of one filled listing
// entry. PubYear is kept as the raw text reported by the source.
type PublicationDetail struct {
	Title    string `json:"title" yaml:"title"`
	PubYear  string `json:"pub_year" yaml:"pub_year"`
	Abstract string `json:"abstract" yaml:"abstract"`
	Link     string `json:"pub_url" yaml:"pub_url"`
}
