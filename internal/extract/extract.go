// Package extract prepares source text for the model: reading supported
// file formats and normalizing the text so the prompt budget is spent on
// content rather than layout artifacts. PDF and DOCX extraction happen in
// external tooling; this package consumes their plain-text output.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultCharBudget bounds how much source text is handed to the model.
const DefaultCharBudget = 60000

var (
	reHyphenBreak  = regexp.MustCompile(`([a-z])-\n([a-z])`)
	reTrailingWS   = regexp.MustCompile(`[ \t]+\n`)
	reBlankRuns    = regexp.MustCompile(`\n{3,}`)
	reInlineSpaces = regexp.MustCompile(`[ \t]{2,}`)
)

// ReadSource loads a supported source file and returns normalized text.
func ReadSource(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".markdown", ".text":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return NormalizeText(string(b)), nil
	default:
		return "", fmt.Errorf("unsupported source format %q (expected extracted plain text or markdown)", filepath.Ext(path))
	}
}

// NormalizeText canonicalizes extracted text: unicode NFC, unix newlines,
// rejoined end-of-line hyphenation, and collapsed whitespace runs.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	s = reHyphenBreak.ReplaceAllString(s, "$1$2")
	s = reTrailingWS.ReplaceAllString(s, "\n")
	s = reInlineSpaces.ReplaceAllString(s, " ")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate cuts text to at most budget characters, preferring a paragraph
// boundary and falling back to a word boundary so the model never receives
// a token cut in half.
func Truncate(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	cut := s[:budget]
	if i := strings.LastIndex(cut, "\n\n"); i > budget/2 {
		return strings.TrimSpace(cut[:i])
	}
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 {
		return strings.TrimSpace(cut[:i])
	}
	return cut
}
