package service

import (
	"regexp"
	"strings"
)

// maxHeaderLines bounds how many leading lines of a page are examined for
// repeating boilerplate.
const maxHeaderLines = 3

// maxHeaderLineLen guards against treating a long prose line that happens
// to mention a model number as boilerplate.
const maxHeaderLineLen = 96

var (
	// modelTokenRe matches product model identifiers like "DX-4500",
	// "HD7200B" or "VTR200".
	modelTokenRe = regexp.MustCompile(`^[A-Z]{1,6}-?\d{2,6}[A-Z0-9-]*$`)
	// brandWordRe matches a leading manufacturer/brand word.
	brandWordRe = regexp.MustCompile(`^[A-Z][A-Za-z&.]+$`)
	// romanTokenRe matches roman-numeral section markers ("II", "IV.").
	romanTokenRe = regexp.MustCompile(`^[IVXLCDM]+\.?$`)
)

// PageHeader is the boilerplate detected at the top of a page.
type PageHeader struct {
	Lines  []string
	Text   string
	Models []string
}

// ExtractPageHeader examines the first lines of raw page text for repeating
// header boilerplate: product-name lines (brand word followed by model
// tokens) or roman-numeral section markers. Matched lines are removed from
// the returned body and recorded verbatim in the header. Pages with no
// recognizable header pass through unchanged. The body is never altered
// beyond removing the matched leading lines.
func ExtractPageHeader(raw string) (string, PageHeader) {
	if raw == "" {
		return raw, PageHeader{}
	}

	lines := strings.Split(raw, "\n")
	matched := 0
	for matched < len(lines) && matched < maxHeaderLines {
		if !isHeaderLine(lines[matched]) {
			break
		}
		matched++
	}

	if matched == 0 {
		return raw, PageHeader{}
	}

	hdr := PageHeader{
		Lines: append([]string(nil), lines[:matched]...),
	}
	hdr.Text = strings.Join(hdr.Lines, "\n")
	hdr.Models = extractModelTokens(hdr.Lines)

	return strings.Join(lines[matched:], "\n"), hdr
}

func isHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeaderLineLen {
		return false
	}

	tokens := strings.Fields(trimmed)
	models := 0
	for _, tok := range tokens {
		if modelTokenRe.MatchString(strings.Trim(tok, ",;:")) {
			models++
		}
	}

	// Brand word followed by at least one model token, or a bare list of
	// two or more model tokens.
	if models >= 2 {
		return true
	}
	if models >= 1 && brandWordRe.MatchString(tokens[0]) {
		return true
	}

	return hasRomanMarker(tokens)
}

func hasRomanMarker(tokens []string) bool {
	for _, tok := range tokens {
		if !romanTokenRe.MatchString(tok) {
			continue
		}
		// A lone "I" is almost always the pronoun, not a marker.
		if len(tok) >= 2 || strings.HasSuffix(tok, ".") {
			return true
		}
	}
	return false
}

func extractModelTokens(lines []string) []string {
	var models []string
	seen := make(map[string]struct{})
	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			tok = strings.Trim(tok, ",;:")
			if !modelTokenRe.MatchString(tok) {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			models = append(models, tok)
		}
	}
	return models
}
