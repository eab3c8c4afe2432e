// Package resolve implements the Target Resolver (spec.md §4.11): resolves
// a target paragraph in a document fragment by reference token, strict text
// match, or fuzzy text match, with snapshot-corrected re-resolution,
// list-block widening, and insertion-only planning.
//
// No direct teacher precedent for the fuzzy/word-overlap tiers or list-block
// widening — the teacher resolves insertion points by anchor-text byte
// search only (paragraph.go's findParagraphRangeByAnchor/
// findNextParagraphStart/normalizeWhitespace). Its "normalize whitespace,
// then literal match" technique is reused directly here for the strict-text
// tier; the rest is built fresh against spec.md §4.11's algorithm.
package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Ref is the resolution request of spec.md §4.11.
type Ref struct {
	TargetRef  string
	TargetText string
	Snapshot   *model.TargetSnapshot
}

// Result is what a successful resolution returns.
type Result struct {
	ParagraphNode  *xmladapter.Node
	ParagraphIndex int // 0-based index among doc's top-level <w:p> children
	ResolvedBy     model.ResolvedBy
	DriftDetected  bool
}

var refPattern = regexp.MustCompile(`^[Pp](\d+)$`)

// ErrTargetNotFound is returned when neither reference nor text resolution
// succeed, per spec.md §7.
type ErrTargetNotFound struct {
	Ref, Text string
}

func (e *ErrTargetNotFound) Error() string {
	return "target paragraph could not be resolved: ref=" + e.Ref + " text=" + e.Text
}

// Resolve implements the three-tier cascade of spec.md §4.11, plus the
// snapshot-corrected re-resolution when a turn-start snapshot is provided
// and a reference-resolved paragraph's text has drifted.
func Resolve(doc *xmladapter.Node, ref Ref) (*Result, error) {
	paragraphs := doc.ChildrenOf("p")
	if len(paragraphs) == 0 && doc.Local == "p" {
		paragraphs = []*xmladapter.Node{doc}
	}

	if ref.TargetRef != "" {
		if idx, ok := parseRef(ref.TargetRef); ok && idx >= 0 && idx < len(paragraphs) {
			res := &Result{ParagraphNode: paragraphs[idx], ParagraphIndex: idx, ResolvedBy: model.ResolvedByReference}
			res.DriftDetected = driftedFromExpectation(paragraphs[idx], ref)
			if res.DriftDetected && ref.Snapshot != nil {
				if corrected, ok := reResolveByStrictTextAfterDrift(paragraphs, idx, ref); ok {
					return corrected, nil
				}
			}
			return res, nil
		}
	}

	if ref.TargetText != "" {
		if idx, ok := findStrictTextMatch(paragraphs, ref.TargetText); ok {
			return &Result{ParagraphNode: paragraphs[idx], ParagraphIndex: idx, ResolvedBy: model.ResolvedByStrictText}, nil
		}
		if idx, ok := findFuzzyMatch(paragraphs, ref.TargetText); ok {
			return &Result{ParagraphNode: paragraphs[idx], ParagraphIndex: idx, ResolvedBy: model.ResolvedByFuzzyText}, nil
		}
	}

	return nil, &ErrTargetNotFound{Ref: ref.TargetRef, Text: ref.TargetText}
}

// parseRef parses a "P12"-shaped token into a 0-based paragraph index.
func parseRef(token string) (int, bool) {
	m := refPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// driftedFromExpectation reports whether the reference-resolved paragraph's
// text no longer matches the request's own text hint. Drift is reported
// through Result.DriftDetected, not rejected (spec.md §4.11 point 1);
// nothing is logged.
func driftedFromExpectation(p *xmladapter.Node, ref Ref) bool {
	if ref.TargetText == "" {
		return false
	}
	return normalizeWhitespace(p.Text()) != normalizeWhitespace(ref.TargetText)
}

// reResolveByStrictTextAfterDrift re-resolves by strict text match when the
// reference-resolved text has drifted from both the request text and the
// turn-start snapshot text (spec.md §4.11's snapshot-corrected resolution
// rule). The match is searched for across all of paragraphs; the snapshot
// entry's in-table flag is not consulted, so the result is not restricted
// to the same in-table or out-of-table context.
func reResolveByStrictTextAfterDrift(paragraphs []*xmladapter.Node, refIdx int, ref Ref) (*Result, bool) {
	snapEntry, hasSnap := ref.Snapshot.Paragraphs[refIdx+1]
	if !hasSnap {
		return nil, false
	}
	current := normalizeWhitespace(paragraphs[refIdx].Text())
	if current == normalizeWhitespace(ref.TargetText) || current == snapEntry.NormalizedText {
		// Not actually drifted relative to both anchors; caller's naive
		// drift check over-fired (e.g., request text itself is stale).
		return nil, false
	}
	idx, ok := findStrictTextMatch(paragraphs, ref.TargetText)
	if !ok {
		return nil, false
	}
	return &Result{
		ParagraphNode:  paragraphs[idx],
		ParagraphIndex: idx,
		ResolvedBy:     model.ResolvedByStrictTextAfterRefDrift,
		DriftDetected:  true,
	}, true
}

func findStrictTextMatch(paragraphs []*xmladapter.Node, text string) (int, bool) {
	norm := normalizeWhitespace(text)
	for i, p := range paragraphs {
		if normalizeWhitespace(p.Text()) == norm {
			return i, true
		}
	}
	return 0, false
}

// findFuzzyMatch implements spec.md §4.11's fuzzy tier: a prefix match of
// paragraph text against content (or vice versa), then word-overlap >= 50%.
func findFuzzyMatch(paragraphs []*xmladapter.Node, text string) (int, bool) {
	norm := normalizeWhitespace(text)
	for i, p := range paragraphs {
		ptext := normalizeWhitespace(p.Text())
		if strings.HasPrefix(ptext, norm) || strings.HasPrefix(norm, ptext) {
			return i, true
		}
	}
	best, bestScore := -1, 0.0
	for i, p := range paragraphs {
		score := wordOverlap(normalizeWhitespace(p.Text()), norm)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= 0.5 {
		return best, true
	}
	return 0, false
}

func wordOverlap(a, b string) float64 {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	bset := make(map[string]bool, len(bw))
	for _, w := range bw {
		bset[w] = true
	}
	common := 0
	for _, w := range aw {
		if bset[w] {
			common++
		}
	}
	denom := len(aw)
	if len(bw) > denom {
		denom = len(bw)
	}
	return float64(common) / float64(denom)
}

// normalizeWhitespace collapses runs of whitespace to a single space and
// trims the ends, mirroring the teacher's normalizeWhitespace helper.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
