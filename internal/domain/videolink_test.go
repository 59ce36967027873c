package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID_QueryParam(t *testing.T) {
	id := ExtractVideoID("https://players.brightcove.net/123456789/default_default/index.html?videoId=6301234567001")
	assert.Equal(t, "6301234567001", id)
}

func TestExtractVideoID_PathForm(t *testing.T) {
	id := ExtractVideoID("https://cms.api.brightcove.com/v1/accounts/123456789/videos/6301234567001")
	assert.Equal(t, "6301234567001", id)
}

func TestExtractVideoID_NoMatch(t *testing.T) {
	assert.Equal(t, "", ExtractVideoID("https://example.com/watch?v=abc"))
	assert.Equal(t, "", ExtractVideoID("not a url ://"))
	assert.Equal(t, "", ExtractVideoID(""))
}

func TestResolveVideoID_PrefersStoredID(t *testing.T) {
	link := &VideoLink{
		VideoID: "111",
		URL:     "https://players.brightcove.net/1/x/index.html?videoId=222",
	}
	assert.Equal(t, "111", link.ResolveVideoID())

	link.VideoID = ""
	assert.Equal(t, "222", link.ResolveVideoID())
}

func TestVideoMetadata_Map(t *testing.T) {
	meta := &VideoMetadata{
		VideoID:    "6301234567001",
		Title:      "Installation walkthrough",
		DurationMS: 95000,
		Tags:       []string{"install"},
	}

	m := meta.Map()
	assert.Equal(t, "6301234567001", m["video_id"])
	assert.Equal(t, "Installation walkthrough", m["title"])
	assert.Equal(t, int64(95000), m["duration_ms"])
	assert.Equal(t, []string{"install"}, m["tags"])
	assert.NotContains(t, m, "description")
	assert.NotContains(t, m, "state")
}
