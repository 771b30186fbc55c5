package poster

import "strings"

// MergeKey selects how the reconciler decides two sections are duplicates.
type MergeKey int

const (
	// MergeByTitle treats any two sections with the same normalized title
	// as duplicates. This is the default: repeated model turns re-emit the
	// same section under the same heading far more often than a document
	// legitimately contains two same-titled sections.
	MergeByTitle MergeKey = iota

	// MergeByTitleContent additionally fingerprints the leading content,
	// so same-titled sections with materially different bodies survive as
	// separate entries.
	MergeByTitleContent
)

const contentFingerprintLen = 64

// Reconcile collapses duplicate sections in place of dropping them: content
// that differs is concatenated with a paragraph break and visuals are
// unioned, so nothing the model produced is silently lost. First-seen order
// is preserved.
func Reconcile(sections []Section, key MergeKey) []Section {
	out := make([]Section, 0, len(sections))
	index := make(map[string]int, len(sections))

	for _, sec := range sections {
		k := mergeKeyFor(sec, key)
		at, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, sec)
			continue
		}

		kept := &out[at]
		if !isContentSubsumed(kept.Content, sec.Content) {
			if strings.TrimSpace(kept.Content) == "" {
				kept.Content = sec.Content
			} else {
				kept.Content = kept.Content + "\n\n" + sec.Content
			}
		}
		kept.Visuals = append(kept.Visuals, sec.Visuals...)
		if kept.Design == nil {
			kept.Design = sec.Design
		}
	}

	return out
}

func mergeKeyFor(sec Section, key MergeKey) string {
	title := strings.ToLower(strings.TrimSpace(sec.Title))
	if key != MergeByTitleContent {
		return title
	}
	return title + "\x00" + contentFingerprint(sec.Content)
}

func contentFingerprint(content string) string {
	c := strings.ToLower(strings.Join(strings.Fields(content), " "))
	if len(c) > contentFingerprintLen {
		c = c[:contentFingerprintLen]
	}
	return c
}

// isContentSubsumed reports whether the incoming content is already present
// as a prefix-level match of the kept content, in which case appending it
// would only duplicate text.
func isContentSubsumed(kept, incoming string) bool {
	k := strings.ToLower(strings.Join(strings.Fields(kept), " "))
	in := strings.ToLower(strings.Join(strings.Fields(incoming), " "))
	if in == "" {
		return true
	}
	return strings.HasPrefix(k, in)
}
