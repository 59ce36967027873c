package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, chunkText("", ChunkConfig{Size: 100}))
}

func TestChunkText_SingleSmallParagraph(t *testing.T) {
	chunks := chunkText("one short paragraph", ChunkConfig{Size: 100})

	require.Len(t, chunks, 1)
	assert.Equal(t, "one short paragraph", chunks[0])
}

func TestChunkText_SplitsAtParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("x", 60)
	text := para + "\n\n" + para + "\n\n" + para

	chunks := chunkText(text, ChunkConfig{Size: 100})

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 200)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_PacksSmallParagraphsTogether(t *testing.T) {
	text := "aa\n\nbb\n\ncc\n\ndd"

	chunks := chunkText(text, ChunkConfig{Size: 100})

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkText_OversizedParagraphFallsBackToLines(t *testing.T) {
	// A table-of-contents style block: many lines, no blank lines,
	// longer than the ceiling.
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("c", 20))
	}
	text := strings.Join(lines, "\n") // 40*20 + 39 = 839 chars

	cfg := ChunkConfig{Size: 100} // ceiling 200
	chunks := chunkText(text, cfg)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), cfg.Ceiling())
		// Fallback boundaries are line breaks: every chunk but the last
		// must end exactly at one.
	}
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "\n"), "chunk should end at a line boundary")
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_NoParagraphBreaksAtAll(t *testing.T) {
	text := strings.Repeat("line\n", 100)

	chunks := chunkText(text, ChunkConfig{Size: 50})

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_UnbrokenLineForcedSplit(t *testing.T) {
	text := strings.Repeat("z", 550)

	cfg := ChunkConfig{Size: 100} // ceiling 200
	chunks := chunkText(text, cfg)

	require.GreaterOrEqual(t, len(chunks), 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), cfg.Ceiling())
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_ForcedSplitRespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("ü", 300) // 600 bytes, no newlines

	cfg := ChunkConfig{Size: 100}
	chunks := chunkText(text, cfg)

	for _, c := range chunks {
		assert.True(t, strings.ToValidUTF8(c, "?") == c, "chunk must be valid UTF-8")
		assert.LessOrEqual(t, len(c), cfg.Ceiling())
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkText_ReconstructionProperty(t *testing.T) {
	texts := []string{
		"a\n\nb\n\nc",
		strings.Repeat("word ", 500),
		"intro\n\n" + strings.Repeat("toc line\n", 80) + "\n\noutro",
		"\n\n\n\nleading blanks",
		"trailing separator\n\n",
	}

	cfg := ChunkConfig{Size: 120}
	for _, text := range texts {
		chunks := chunkText(text, cfg)
		assert.Equal(t, text, strings.Join(chunks, ""), "input %q", text)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), cfg.Ceiling())
			assert.NotEmpty(t, c)
		}
	}
}

func TestChunkText_ZeroConfigUsesDefaults(t *testing.T) {
	chunks := chunkText("hello", ChunkConfig{})

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestDefaultChunkConfig(t *testing.T) {
	cfg := DefaultChunkConfig()
	assert.Equal(t, 1500, cfg.Size)
	assert.Equal(t, 3000, cfg.Ceiling())
}
