package pipeline

import (
	"regexp"
	"strings"
)

// The repair pass is a fixed, ordered list of textual rewrites targeting
// the malformations the upstream model is actually observed to emit:
// missing separators where a generation was cut and resumed, trailing
// separators, line comments, and unescaped quotes inside running text.
// The rules are heuristic and can corrupt already-valid JSON, so the
// orchestrator only runs them after a strict parse has failed.
type repairRule struct {
	name  string
	apply func(string) string
}

var repairRules = []repairRule{
	{name: "strip-line-comments", apply: stripLineComments},
	{name: "insert-missing-commas", apply: insertMissingCommas},
	{name: "remove-trailing-commas", apply: removeTrailingCommas},
	{name: "escape-inner-quotes", apply: escapeInnerQuotes},
}

// Field names the poster schema uses. Seeing one right after a closing
// delimiter is strong evidence a separator went missing there.
const knownFieldNames = `title|content|column|sections|section|visuals|visual|type|authors|author|university|department|theme|contactInfo|design|items|segments|labels|series|datasets|headers|rows|url|caption|style|warnings|leftLogoUrl|rightLogoUrl|email|phone|website|address|qrCodeUrl|name|data|label|value|color|icon|variant|primaryColor|secondaryColor|accentColor|backgroundColor|titleTextColor|bodyTextColor|sectionTitleColor|borderColor|titleColor`

var (
	// `"a" "b"` and zero-gap `"a""b"` -> `"a", "b"`. The leading [^\\]
	// keeps escaped quotes inside a string literal from being treated as
	// a closing quote.
	reAdjacentStrings = regexp.MustCompile(`([^\\]")(\s*)(")`)

	// `} "title":` -> `}, "title":` for recognized field names only.
	reCloserThenField = regexp.MustCompile(`([}\]])(\s*)"(` + knownFieldNames + `)"(\s*:)`)

	// `} {` -> `}, {` and the three other closer/opener pairings.
	reCloserThenOpener = regexp.MustCompile(`([}\]])(\s*)([{\[])`)

	// `1 2` -> `1, 2`.
	reAdjacentNumbers = regexp.MustCompile(`([0-9])(\s+)(-?[0-9])`)

	// `,}` / `, ]` -> `}` / `]`.
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)

	// A quote tightly flanked by text characters sits inside running text.
	// Structural delimiters, whitespace, quotes, and backslashes on either
	// side mean the quote may legitimately delimit a string literal.
	reInnerQuote = regexp.MustCompile(`([^\s{}\[\]:,"\\])"([^\s{}\[\]:,"\\])`)
)

// applyRepairs runs every repair rule, in order, over the whole text.
func applyRepairs(s string) string {
	for _, rule := range repairRules {
		s = rule.apply(s)
	}
	return s
}

// stripLineComments removes // comments the model sometimes annotates its
// output with. It walks the text with string-literal awareness so URLs
// inside values survive.
func stripLineComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// insertMissingCommas adds the separator between two adjacent value-like
// tokens. Adjacency of two values with nothing between them is the failure
// mode a cut-and-resumed generation produces most often.
func insertMissingCommas(s string) string {
	s = reAdjacentStrings.ReplaceAllString(s, `$1,$2$3`)
	s = reCloserThenField.ReplaceAllString(s, `$1,$2"$3"$4`)
	s = reCloserThenOpener.ReplaceAllString(s, `$1,$2$3`)
	// Regexp matches do not overlap, so a run like `1 2 3` needs a second
	// pass to separate the remaining pair.
	for prev := ""; prev != s; {
		prev = s
		s = reAdjacentNumbers.ReplaceAllString(s, `$1,$2$3`)
	}
	return s
}

func removeTrailingCommas(s string) string {
	for prev := ""; prev != s; {
		prev = s
		s = reTrailingComma.ReplaceAllString(s, `$1`)
	}
	return s
}

// escapeInnerQuotes escapes a quote character evidently embedded in running
// text, e.g. a title quoting a term. Quotes adjacent to structural
// delimiters or whitespace are left alone.
func escapeInnerQuotes(s string) string {
	for prev := ""; prev != s; {
		prev = s
		s = reInnerQuote.ReplaceAllString(s, `$1\"$2`)
	}
	return s
}
