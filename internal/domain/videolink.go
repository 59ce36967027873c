package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// VideoLink is a video reference discovered during link extraction.
// Created with NeedsEnrichment=true by the ingest stage; the enrichment
// synchronizer flips the flag exactly once per successful fetch. A failed
// fetch records the error and leaves the flag set so the record is picked
// up again on the next run.
type VideoLink struct {
	ID              string
	DocumentID      string
	URL             string
	VideoID         string
	NeedsEnrichment bool
	EnrichmentError string
	EnrichedAt      *time.Time
	Metadata        map[string]any
	CreatedAt       time.Time
}

var playerPathVideoRe = regexp.MustCompile(`/videos?/(\d{6,})`)

// ResolveVideoID returns the external video identifier for the link,
// deriving it from the URL when the extraction stage did not store one.
func (l *VideoLink) ResolveVideoID() string {
	if l.VideoID != "" {
		return l.VideoID
	}
	return ExtractVideoID(l.URL)
}

// ExtractVideoID pulls a video identifier out of a player or CMS URL.
// Supports the `videoId` query parameter used by embedded players and the
// `/videos/<id>` path form. Returns "" when nothing matches.
func ExtractVideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	if id := u.Query().Get("videoId"); id != "" {
		return id
	}
	if m := playerPathVideoRe.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// VideoMetadata is the structured result of one metadata fetch.
type VideoMetadata struct {
	VideoID      string
	Title        string
	Description  string
	DurationMS   int64
	State        string
	ThumbnailURL string
	Tags         []string
}

// Map flattens the metadata for storage in the link's metadata column.
func (m *VideoMetadata) Map() map[string]any {
	out := map[string]any{
		"video_id":    m.VideoID,
		"title":       m.Title,
		"duration_ms": m.DurationMS,
	}
	if m.Description != "" {
		out["description"] = m.Description
	}
	if m.State != "" {
		out["state"] = m.State
	}
	if m.ThumbnailURL != "" {
		out["thumbnail_url"] = m.ThumbnailURL
	}
	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}
	return out
}
