package domain

import (
	"regexp"
	"strconv"
)

// VersionTypeVersion is the candidate type that participates in canonical
// version selection. Revision lists also carry dates, ECO numbers and
// free-form notes; those get other type tags and are ignored.
const VersionTypeVersion = "version"

// VersionCandidate is one parsed entry from a document's revision list.
type VersionCandidate struct {
	Value      string
	Type       string
	Confidence float64
}

var leadingNumberRe = regexp.MustCompile(`^\s*[vV]?(\d+(?:\.\d+)?)`)

// Numeric parses the leading numeric token of the candidate's value.
// Candidates with no parseable number rank as 0.
func (c VersionCandidate) Numeric() float64 {
	m := leadingNumberRe.FindStringSubmatch(c.Value)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return n
}
