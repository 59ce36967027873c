package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPageHeader_ProductLine(t *testing.T) {
	raw := "Contoura DX-4500 DX-4700 DX-5000\nSafety instructions\n\nRead this manual before operating the unit."

	body, hdr := ExtractPageHeader(raw)

	assert.Equal(t, "Contoura DX-4500 DX-4700 DX-5000", hdr.Text)
	assert.Equal(t, []string{"DX-4500", "DX-4700", "DX-5000"}, hdr.Models)
	assert.NotContains(t, body, hdr.Text)
	assert.Equal(t, "Safety instructions\n\nRead this manual before operating the unit.", body)
}

func TestExtractPageHeader_MultiLineHeader(t *testing.T) {
	raw := strings.Join([]string{
		"Contoura DX-4500, DX-4700",
		"Section II. Installation",
		"The mounting bracket ships in two parts.",
	}, "\n")

	body, hdr := ExtractPageHeader(raw)

	assert.Len(t, hdr.Lines, 2)
	assert.Equal(t, "Contoura DX-4500, DX-4700\nSection II. Installation", hdr.Text)
	assert.Equal(t, []string{"DX-4500", "DX-4700"}, hdr.Models)
	assert.Equal(t, "The mounting bracket ships in two parts.", body)
}

func TestExtractPageHeader_RomanNumeralMarker(t *testing.T) {
	body, hdr := ExtractPageHeader("IV. Troubleshooting\nIf the unit does not power on, check the fuse.")

	assert.Equal(t, "IV. Troubleshooting", hdr.Text)
	assert.Empty(t, hdr.Models)
	assert.Equal(t, "If the unit does not power on, check the fuse.", body)
}

func TestExtractPageHeader_NoMatchPassesThrough(t *testing.T) {
	raw := "This page begins with ordinary prose.\nIt mentions no models at all."

	body, hdr := ExtractPageHeader(raw)

	assert.Equal(t, raw, body)
	assert.Empty(t, hdr.Text)
	assert.Empty(t, hdr.Lines)
	assert.Empty(t, hdr.Models)
}

func TestExtractPageHeader_OnlyLeadingLinesExamined(t *testing.T) {
	raw := "Ordinary opening paragraph.\nContoura DX-4500 DX-4700\nMore text."

	body, hdr := ExtractPageHeader(raw)

	// A header candidate below a non-matching line is body text.
	assert.Equal(t, raw, body)
	assert.Empty(t, hdr.Text)
}

func TestExtractPageHeader_AtMostThreeLines(t *testing.T) {
	raw := strings.Join([]string{
		"Contoura DX-4500 DX-4700",
		"Contoura HD7200 HD7300",
		"Contoura VTR200 VTR300",
		"Contoura XK100 XK200", // fourth candidate stays in the body
		"Prose follows.",
	}, "\n")

	body, hdr := ExtractPageHeader(raw)

	assert.Len(t, hdr.Lines, 3)
	assert.True(t, strings.HasPrefix(body, "Contoura XK100 XK200"))
}

func TestExtractPageHeader_ProseWithModelNumberKept(t *testing.T) {
	// A long prose line mentioning a model must not be treated as header.
	raw := "The DX-4500 model introduced in 2019 replaced the earlier series and remains compatible with all brackets sold since then.\nNext line."

	body, hdr := ExtractPageHeader(raw)

	assert.Equal(t, raw, body)
	assert.Empty(t, hdr.Text)
}

func TestExtractPageHeader_LonePronounI(t *testing.T) {
	body, hdr := ExtractPageHeader("I recommend reading appendix B first.\nSecond line.")

	assert.Empty(t, hdr.Text)
	assert.Contains(t, body, "I recommend")
}

func TestExtractPageHeader_EmptyPage(t *testing.T) {
	body, hdr := ExtractPageHeader("")

	assert.Equal(t, "", body)
	assert.Empty(t, hdr.Lines)
}
