package service

import (
	"strings"

	"memora/utils"
)

const (
	// TitlePlaceholder is shown for notes whose first line is empty.
	TitlePlaceholder = "Untitled"
	// PreviewPlaceholder is shown for notes with no body text.
	PreviewPlaceholder = "No content"

	maxPreviewLen = 150
)

// ExtractTitle derives a display title from note content: markup is
// stripped and the first line, trimmed, becomes the title.
func ExtractTitle(content string) string {
	text := utils.StripHTML(content)
	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if firstLine == "" {
		return TitlePlaceholder
	}
	return firstLine
}

// ExtractPreview derives a short body preview: the second and third
// lines of the stripped text joined by a space, truncated to 150 runes.
func ExtractPreview(content string) string {
	text := utils.StripHTML(content)
	lines := strings.Split(text, "\n")

	var body []string
	for i := 1; i < len(lines) && i < 3; i++ {
		body = append(body, lines[i])
	}

	preview := strings.TrimSpace(strings.Join(body, " "))
	if preview == "" {
		return PreviewPlaceholder
	}

	runes := []rune(preview)
	if len(runes) > maxPreviewLen {
		preview = string(runes[:maxPreviewLen])
	}
	return preview
}

// titleSortKey is the case-folded derived title used for title ordering.
func titleSortKey(content string) string {
	return strings.ToLower(ExtractTitle(content))
}
