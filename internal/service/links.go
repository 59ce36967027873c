package service

import (
	"regexp"

	"github.com/manualgrid/ingestd/internal/domain"
)

// videoURLRe matches embedded Brightcove player and CMS video URLs in
// page text.
var videoURLRe = regexp.MustCompile(`https?://(?:players|edge|cms\.api)\.brightcove\.(?:net|com)/[^\s"'<>)\]]+`)

// ExtractVideoLinks scans raw page text for video references. Each unique
// URL produces one link flagged for enrichment; the video ID is resolved
// from the URL when possible and left empty otherwise (the synchronizer
// records such links as failed with a resolvable-ID error).
func ExtractVideoLinks(documentID string, pages []domain.Page) []*domain.VideoLink {
	var links []*domain.VideoLink
	seen := make(map[string]struct{})

	for _, page := range pages {
		for _, rawURL := range videoURLRe.FindAllString(page.RawText, -1) {
			if _, ok := seen[rawURL]; ok {
				continue
			}
			seen[rawURL] = struct{}{}
			links = append(links, &domain.VideoLink{
				DocumentID:      documentID,
				URL:             rawURL,
				VideoID:         domain.ExtractVideoID(rawURL),
				NeedsEnrichment: true,
			})
		}
	}

	return links
}
