// Package textproc post-processes generated prose. Its cleanup is
// deterministic: no model calls, pure string work.
package textproc

import (
	"regexp"
	"strings"
)

// Greeting markers checked against the first paragraph only.
var greetingMarkers = []string{
	"dear ", "to whom", "hello", "greetings", "hi ",
}

// Closing vocabulary checked against the last paragraph only. Bare
// "regards" covers the best/kind/warm variants.
var closingMarkers = []string{
	"sincerely",
	"thank you for your consideration",
	"thank you for considering",
	"thank you",
	"thanks",
	"regards",
	"yours truly",
	"yours sincerely",
	"yours faithfully",
	"respectfully",
	"cordially",
	"gratefully",
	"i look forward to",
	"please feel free to contact",
	"i would welcome the opportunity",
	"looking forward",
}

var multiNewline = regexp.MustCompile(`\n{3,}`)

// CleanCoverLetter strips the greeting and sign-off from a generated cover
// letter, leaving only body paragraphs. Candidate name, when supplied, is
// used to catch signature lines. The operation is idempotent: text with no
// greeting or closing passes through unchanged. Only the leading greeting
// paragraph and trailing closing paragraphs are ever removed; a substantive
// middle paragraph survives regardless of its content.
func CleanCoverLetter(content, candidateName string) string {
	paragraphs := splitParagraphs(content)
	if len(paragraphs) == 0 {
		// Never return empty for non-trivial input.
		return content
	}

	// Drop a leading greeting paragraph.
	first := strings.ToLower(paragraphs[0])
	for _, marker := range greetingMarkers {
		if strings.Contains(first, marker) {
			paragraphs = paragraphs[1:]
			break
		}
	}

	// Drop trailing closing/signature paragraphs until the last one is clean.
	nameLower := strings.ToLower(strings.TrimSpace(candidateName))
	for len(paragraphs) > 0 {
		last := paragraphs[len(paragraphs)-1]
		lastLower := strings.ToLower(last)

		drop := false
		for _, marker := range closingMarkers {
			if strings.Contains(lastLower, marker) {
				drop = true
				break
			}
		}
		if !drop && nameLower != "" {
			// A paragraph carrying the candidate's name, or one too short to
			// be body text, is treated as a signature line.
			if strings.Contains(lastLower, nameLower) || len(last) < 30 {
				drop = true
			}
		}
		if !drop {
			break
		}
		paragraphs = paragraphs[:len(paragraphs)-1]
	}

	// Residual short signature lines the vocabulary missed.
	for len(paragraphs) > 0 && len(paragraphs[len(paragraphs)-1]) < 50 {
		paragraphs = paragraphs[:len(paragraphs)-1]
	}

	cleaned := strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	if cleaned == "" {
		// Cleanup must never eat the whole letter.
		return strings.TrimSpace(content)
	}
	return multiNewline.ReplaceAllString(cleaned, "\n\n")
}

// splitParagraphs splits on blank-line boundaries, trimming each paragraph
// and dropping empty ones.
func splitParagraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
