package service

import (
	"strings"
	"unicode/utf8"
)

// ChunkConfig controls chunking of cleaned document text.
type ChunkConfig struct {
	// Size is the target chunk size in characters. The hard ceiling before
	// a forced split is always 2x Size.
	Size int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: 1500}
}

// Ceiling is the hard upper bound on chunk length.
func (c ChunkConfig) Ceiling() int {
	return 2 * c.Size
}

// chunkText partitions text into an ordered sequence of chunks, each as
// close to cfg.Size as possible without exceeding the ceiling. Primary
// split points are paragraph boundaries (blank lines); a paragraph longer
// than the ceiling falls back to single-newline splits, and an unbroken
// line longer than the ceiling is force-cut at the ceiling on a rune
// boundary. Every chunk is an exact substring of text, so concatenating
// the result reconstructs the input. Empty input yields no chunks.
func chunkText(text string, cfg ChunkConfig) []string {
	if text == "" {
		return nil
	}
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}
	ceiling := cfg.Ceiling()

	parts := splitParts(text, ceiling)

	chunks := make([]string, 0, len(parts))
	var b strings.Builder
	for _, part := range parts {
		if b.Len() > 0 && b.Len()+len(part) > cfg.Size {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(part)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}

	return chunks
}

// splitParts breaks text into paragraph-sized pieces no longer than the
// ceiling, keeping separators attached so pieces concatenate losslessly.
func splitParts(text string, ceiling int) []string {
	var parts []string
	for _, para := range splitAfterNonEmpty(text, "\n\n") {
		if len(para) <= ceiling {
			parts = append(parts, para)
			continue
		}
		// Oversized paragraph, e.g. a table of contents with no blank
		// lines: fall back to single-newline boundaries.
		for _, line := range splitAfterNonEmpty(para, "\n") {
			if len(line) <= ceiling {
				parts = append(parts, line)
				continue
			}
			parts = append(parts, hardCut(line, ceiling)...)
		}
	}
	return parts
}

func splitAfterNonEmpty(s, sep string) []string {
	segs := strings.SplitAfter(s, sep)
	out := segs[:0]
	for _, seg := range segs {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// hardCut is the last resort for a single line longer than the ceiling:
// cut at the ceiling, backing up to a rune boundary.
func hardCut(s string, ceiling int) []string {
	var out []string
	for len(s) > ceiling {
		cut := ceiling
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = ceiling
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
