// Package mdpre implements the Markdown Preprocessor (spec.md §4.2): it
// strips a small inline Markdown subset from a text and emits Format Hints
// anchored to clean-text offsets, and it classifies block-level lines
// (headings, list markers, table separators) used by List Generation and
// the Route Planner.
//
// Every marker regex lives in this one file, per spec.md §9's "centralize
// markers and detectors in one module" redesign note. Structure is grounded
// on verkaro-editml-go's parser.go: collect every regex family's matches,
// sort by position, and interleave — applied here to Markdown inline
// markers instead of EditML tags.
package mdpre

import "regexp"

// Inline marker patterns. Each captures its inner text in group 1.
var (
	boldPattern          = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicStarPattern    = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderPattern   = regexp.MustCompile(`_([^_]+)_`)
	underlinePattern     = regexp.MustCompile(`\+\+([^+]+)\+\+`)
	strikePattern        = regexp.MustCompile(`~~([^~]+)~~`)
	codePattern          = regexp.MustCompile("`([^`]+)`")
	explicitUTagPattern  = regexp.MustCompile(`<u>(.*?)</u>`)
	explicitSTagPattern  = regexp.MustCompile(`<s>(.*?)</s>`)
)

// Block-level detectors, used for line classification only; the inline pass
// never strips this syntax.
var (
	HeadingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	BulletPattern   = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	DecimalPattern  = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	LowerAlphaPattern = regexp.MustCompile(`^(\s*)([a-z])\.\s+(.*)$`)
	UpperAlphaPattern = regexp.MustCompile(`^(\s*)([A-Z])\.\s+(.*)$`)
	LowerRomanPattern = regexp.MustCompile(`^(\s*)([ivxlcdm]+)\.\s+(.*)$`)
	UpperRomanPattern = regexp.MustCompile(`^(\s*)([IVXLCDM]+)\.\s+(.*)$`)
	TableRowPattern   = regexp.MustCompile(`^\s*\|(.+)\|\s*$`)
	TableSepPattern   = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)
)
