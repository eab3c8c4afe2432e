package mdpre

import (
	"strings"

	"github.com/falcomza/reconcile/internal/model"
)

// LineKind tags a classified block-level line.
type LineKind int

const (
	LinePlain LineKind = iota
	LineHeading
	LineListItem
	LineTableRow
	LineTableSeparator
)

// ClassifiedLine is one line's block-level classification.
type ClassifiedLine struct {
	Kind       LineKind
	Text       string // content with marker/heading-hash stripped
	Indent     int    // leading-space count, for indentation-step inference
	HeadingLvl int
	Marker     model.MarkerStyle
}

// ClassifyLine applies the canonical strict list-target detector: a line is
// a list item only when one of the precompiled marker patterns matches at
// the line's own indentation (after stripping leading spaces), with no
// "loose" heuristic fallback. See SPEC_FULL.md §9, Open Question 1.
func ClassifyLine(line string) ClassifiedLine {
	if m := HeadingPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineHeading, Text: strings.TrimSpace(m[2]), HeadingLvl: len(m[1])}
	}
	if TableSepPattern.MatchString(line) && strings.Contains(line, "-") {
		return ClassifiedLine{Kind: LineTableSeparator, Text: line}
	}
	if TableRowPattern.MatchString(line) {
		return ClassifiedLine{Kind: LineTableRow, Text: line}
	}
	if m := BulletPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[2], Indent: len(m[1]), Marker: model.MarkerBullet}
	}
	if m := DecimalPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[3], Indent: len(m[1]), Marker: model.MarkerDecimal}
	}
	if m := LowerRomanPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[3], Indent: len(m[1]), Marker: model.MarkerLowerRoman}
	}
	if m := UpperRomanPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[3], Indent: len(m[1]), Marker: model.MarkerUpperRoman}
	}
	if m := LowerAlphaPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[3], Indent: len(m[1]), Marker: model.MarkerLowerAlpha}
	}
	if m := UpperAlphaPattern.FindStringSubmatch(line); m != nil {
		return ClassifiedLine{Kind: LineListItem, Text: m[3], Indent: len(m[1]), Marker: model.MarkerUpperAlpha}
	}
	return ClassifiedLine{Kind: LinePlain, Text: line}
}

// IndentStep infers the spaces-per-level used by a block of list lines: the
// minimum positive jump in indentation across consecutive items, or 2 when
// no jump is observed (a single-level list).
func IndentStep(lines []ClassifiedLine) int {
	min := -1
	var prev = -1
	for _, l := range lines {
		if l.Kind != LineListItem {
			continue
		}
		if prev >= 0 {
			jump := l.Indent - prev
			if jump > 0 && (min == -1 || jump < min) {
				min = jump
			}
		}
		prev = l.Indent
	}
	if min <= 0 {
		return 2
	}
	return min
}

// HasBlockFeatures reports whether content contains headings, a table, or
// multiple lines separated by a blank line — the block-html classification
// signal of spec.md §4.10 decision 4.
func HasBlockFeatures(content string) bool {
	lines := strings.Split(content, "\n")
	blankSeparated := false
	sawContent := false
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			if sawContent && i < len(lines)-1 {
				blankSeparated = true
			}
			continue
		}
		sawContent = true
		cl := ClassifyLine(l)
		if cl.Kind == LineHeading || cl.Kind == LineTableRow {
			return true
		}
	}
	return blankSeparated
}

// ParseList classifies every line of content and reports whether it forms a
// list with at least one real item, per spec.md §4.10 decision 1. Heading
// and table-group lines are preserved as their own ParsedListItem entries so
// List Generation (component 8) can still emit mixed blocks.
func ParseList(content string) (*model.ParsedList, bool) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedListItem
	sawListItem := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		cl := ClassifyLine(l)
		switch cl.Kind {
		case LineListItem:
			sawListItem = true
			items = append(items, model.ParsedListItem{Text: cl.Text, Level: levelFromIndent(cl.Indent), MarkerStyle: cl.Marker})
		case LineHeading:
			items = append(items, model.ParsedListItem{Text: cl.Text, IsHeading: true, HeadingLvl: cl.HeadingLvl})
		case LineTableRow, LineTableSeparator:
			items = append(items, model.ParsedListItem{Text: cl.Text})
		default:
			items = append(items, model.ParsedListItem{Text: cl.Text})
		}
	}
	if !sawListItem {
		return nil, false
	}
	return &model.ParsedList{Items: items}, true
}

func levelFromIndent(indent int) int {
	if indent <= 0 {
		return 0
	}
	return indent / 2
}
