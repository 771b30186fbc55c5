// Package pipeline turns the raw, frequently malformed reply of the hosted
// model into a validated poster document. The flow is strictly linear per
// invocation: extract the first balanced JSON value (closing it if the
// reply was truncated), attempt a strict parse, fall back once to the
// textual repair pass, then normalize and reconcile the result.
package pipeline

import (
	"encoding/json"
	"fmt"

	"posterforge/internal/poster"

	"github.com/sirupsen/logrus"
)

// UserFacingParseMessage is the single diagnostic shown when both parse
// attempts fail. Internal repair detail is deliberately not exposed.
const UserFacingParseMessage = "The AI response had a formatting issue. Please try again, or shorten the input document."

// ParseError is the one terminal failure the pipeline can produce: neither
// the strict parse nor the post-repair retry yielded usable JSON.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("poster reply parse failed at %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage returns the retryable diagnostic intended for direct display.
func (e *ParseError) UserMessage() string { return UserFacingParseMessage }

// Pipeline holds per-pipeline policy; invocations themselves are stateless
// and safe to repeat.
type Pipeline struct {
	mergeKey poster.MergeKey
	log      *logrus.Entry
}

type Option func(*Pipeline)

// WithMergeKey overrides the duplicate-section merge policy.
func WithMergeKey(key poster.MergeKey) Option {
	return func(p *Pipeline) { p.mergeKey = key }
}

func WithLogger(log *logrus.Entry) Option {
	return func(p *Pipeline) { p.log = log }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		mergeKey: poster.MergeByTitle,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse runs one full ingestion pass over a raw model reply. On success the
// returned document is fully populated, has unique section ids, and no two
// sections share a normalized title. On failure the error is a *ParseError;
// no partial document is returned.
func (p *Pipeline) Parse(raw string) (doc *poster.Document, err error) {
	// The repair rules are pattern rewrites over untrusted text; a panic
	// anywhere in the attempt is equivalent to a structural parse failure.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &ParseError{Stage: "repair", Err: fmt.Errorf("recovered: %v", r)}
		}
	}()

	text := stripCodeFences(raw)

	fragment, st, truncated := extractBalanced(text)
	if truncated {
		p.log.WithField("open_depth", len(st.stack)).Warn("model reply truncated mid-object, closing structure")
		fragment = closeTruncated(fragment, st)
	}

	candidate, strictErr := parseCandidate(fragment)
	if strictErr != nil {
		repaired := applyRepairs(fragment)
		candidate, err = parseCandidate(repaired)
		if err != nil {
			p.log.WithError(err).Warn("model reply unparseable after repair pass")
			return nil, &ParseError{Stage: "retry", Err: err}
		}
		p.log.WithError(strictErr).Debug("strict parse failed, repair pass recovered the reply")
	}

	doc = poster.FromCandidate(candidate)
	doc.Sections = poster.Reconcile(doc.Sections, p.mergeKey)
	return doc, nil
}

func parseCandidate(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, expected an object", v)
	}
	return m, nil
}
