package service

import "github.com/manualgrid/ingestd/internal/domain"

// SelectCanonicalVersion picks the canonical version from a document's
// revision-list candidates: the entry of type "version" with the highest
// numeric value, ties broken by first occurrence in input order.
// Confidence scores are deliberately not consulted; selecting by
// confidence picked stale versions whenever an old entry was parsed more
// cleanly than the newest one.
//
// Returns ok=false when no candidate has type "version". That is a valid
// outcome ("no canonical version found"), not an error.
func SelectCanonicalVersion(candidates []domain.VersionCandidate) (domain.VersionCandidate, bool) {
	var best domain.VersionCandidate
	bestValue := 0.0
	found := false

	for _, c := range candidates {
		if c.Type != domain.VersionTypeVersion {
			continue
		}
		value := c.Numeric()
		if !found || value > bestValue {
			best = c
			bestValue = value
			found = true
		}
	}

	return best, found
}
