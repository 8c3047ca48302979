package journal

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxEssenceLen caps the essence; longer first sentences are cut to
	// truncatedEssenceLen and suffixed with an ellipsis marker.
	maxEssenceLen       = 100
	truncatedEssenceLen = 97
	ellipsisMarker      = "..."

	// maxFragments caps the structured understanding.
	maxFragments = 4

	// minFragmentLen is the strict lower bound a trimmed fragment must
	// exceed to survive the filter.
	minFragmentLen = 5

	summaryPrefix = "Processed: "
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	firstSentence  = regexp.MustCompile(`[^.!?]+[.!?]`)
	fragmentSplit  = regexp.MustCompile(`[.!?\n]+`)
)

// Digest holds the fields derived from a memory's raw content by the
// rule-based processor. All three fields are always populated.
type Digest struct {
	essence                 string
	structuredUnderstanding []string
	summary                 string
	processedAt             time.Time
}

// ReconstructDigest rebuilds a digest from repository data.
func ReconstructDigest(essence string, structuredUnderstanding []string, summary string, processedAt time.Time) *Digest {
	return &Digest{
		essence:                 essence,
		structuredUnderstanding: structuredUnderstanding,
		summary:                 summary,
		processedAt:             processedAt,
	}
}

// Essence returns the leading sentence (or first ~100 characters) of the
// source content.
func (d *Digest) Essence() string {
	return d.essence
}

// StructuredUnderstanding returns 1 to 4 salient sentence fragments.
func (d *Digest) StructuredUnderstanding() []string {
	return d.structuredUnderstanding
}

// Summary returns the normalized restatement of the full content.
func (d *Digest) Summary() string {
	return d.summary
}

// ProcessedAt returns when the digest was derived.
func (d *Digest) ProcessedAt() time.Time {
	return d.processedAt
}

// DeriveDigest applies the rule-based heuristics to raw content. It never
// fails for non-empty input: degenerate content falls back to the
// whitespace-normalized full text.
func DeriveDigest(content string, now time.Time) *Digest {
	clean := normalizeWhitespace(content)

	essence := firstSentence.FindString(clean)
	if essence == "" {
		essence = clean
	}
	if utf8.RuneCountInString(essence) > maxEssenceLen {
		essence = string([]rune(essence)[:truncatedEssenceLen]) + ellipsisMarker
	}

	var fragments []string
	for _, part := range fragmentSplit.Split(content, -1) {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > minFragmentLen {
			fragments = append(fragments, part)
		}
		if len(fragments) == maxFragments {
			break
		}
	}
	if len(fragments) == 0 {
		fragments = []string{clean}
	}

	return &Digest{
		essence:                 essence,
		structuredUnderstanding: fragments,
		summary:                 summaryPrefix + clean,
		processedAt:             now.UTC(),
	}
}

// normalizeWhitespace collapses whitespace runs (including newlines) into
// single spaces and trims the ends.
func normalizeWhitespace(s string) string {
	return whitespaceRuns.ReplaceAllString(strings.TrimSpace(s), " ")
}
