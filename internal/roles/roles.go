// Package roles pulls job role names out of a model's free-text answer.
//
// A line is a candidate when it contains a bullet marker ("-" or "•")
// anywhere. Leading and trailing markers and whitespace are stripped, then
// the line is cut at the first en-dash, em-dash or spaced hyphen. A hyphen
// used mid-sentence therefore also yields a candidate; callers get the text
// before it.
package roles

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"resume-rag/internal/models"
)

var (
	separatorRe = regexp.MustCompile(models.RoleSeparatorRegex)
	fenceRe     = regexp.MustCompile(models.FenceRegex)
)

// Extract returns the role names found in text in line order. Duplicates
// are kept. It never fails; text without candidates yields nil.
func Extract(text string) []string {
	var roles []string
	for _, s := range parseLines(text) {
		roles = append(roles, s.Title)
	}
	return roles
}

// Suggestions parses text as a JSON array of {title, reason} objects,
// optionally inside a code fence, and falls back to the line grammar of
// Extract when it is not one.
func Suggestions(text string) []models.Suggestion {
	if s, ok := parseJSON(text); ok {
		return s
	}
	return parseLines(text)
}

func parseLines(text string) []models.Suggestion {
	var out []models.Suggestion
	for _, line := range strings.Split(text, "\n") {
		if s, ok := parseLine(line); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseLine(line string) (models.Suggestion, bool) {
	if !strings.ContainsAny(line, models.BulletMarkers) {
		return models.Suggestion{}, false
	}

	body := strings.TrimFunc(line, isMarkerOrSpace)

	var reason string
	if loc := separatorRe.FindStringIndex(body); loc != nil {
		reason = cleanText(body[loc[1]:])
		body = body[:loc[0]]
	}

	title := cleanText(body)
	if title == "" {
		return models.Suggestion{}, false
	}
	return models.Suggestion{Title: title, Reason: reason}, true
}

// cleanText drops markdown emphasis and a trailing colon around a title.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	s = strings.Trim(s, "*_")
	return strings.TrimSpace(s)
}

func isMarkerOrSpace(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(models.BulletMarkers, r)
}

func parseJSON(text string) ([]models.Suggestion, bool) {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil && m[2] != "" {
		text = strings.TrimSpace(m[2])
	}
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}

	var raw []struct {
		Title  *string `json:"title"`
		Reason string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}

	out := make([]models.Suggestion, 0, len(raw))
	for _, r := range raw {
		if r.Title == nil {
			return nil, false
		}
		if title := strings.TrimSpace(*r.Title); title != "" {
			out = append(out, models.Suggestion{Title: title, Reason: strings.TrimSpace(r.Reason)})
		}
	}
	return out, true
}
