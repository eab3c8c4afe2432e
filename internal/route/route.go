// Package route implements the Route Planner & Orchestrator (spec.md §4.10):
// classifies an incoming edit into one of structured-list-direct,
// empty-formatted-text, empty-html, block-html, ooxml-engine, or
// single-line-list-fallback. This package only plans: the root package's
// ApplyRedlineToParagraphFragment switches on the plan's Kind to run the
// matching flow.
//
// No teacher precedent — the teacher has no routing concept, applying every
// edit through the same chart/paragraph-replace path unconditionally. The
// sum-typed RoutePlan, switched on by the caller, replaces the nested
// try/catch cascades spec.md §9 flags for redesign; the general "classify
// first, build second" structure is loosely grounded on
// verkaro-editml-go's TransformToCleanView two-pass approach (prescan for
// structural conflicts, then build).
package route

import (
	"strings"

	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/model"
)

// Plan applies the decision order of spec.md §4.10 (first match wins) to an
// edit request and returns the sum-typed RoutePlan.
func Plan(oldText, newContent string) model.RoutePlan {
	normalized := materializeEscapes(newContent)
	flags := model.RouteFlags{
		EmptyOriginal: strings.TrimSpace(oldText) == "",
	}

	if isMultiLine(normalized) {
		if parsed, ok := mdpre.ParseList(normalized); ok {
			flags.StructuredList = true
			return model.RoutePlan{Kind: model.RouteStructuredListDirect, NormalizedContent: normalized, ParsedListData: parsed, Flags: flags}
		}
	}

	_, hints := mdpre.Strip(normalized)
	flags.InlineFormatting = len(hints) > 0

	if flags.EmptyOriginal && flags.InlineFormatting {
		return model.RoutePlan{Kind: model.RouteEmptyFormattedText, NormalizedContent: normalized, Flags: flags}
	}
	if flags.EmptyOriginal {
		return model.RoutePlan{Kind: model.RouteEmptyHTML, NormalizedContent: normalized, Flags: flags}
	}

	flags.BlockElements = mdpre.HasBlockFeatures(normalized)
	if flags.BlockElements {
		return model.RoutePlan{Kind: model.RouteBlockHTML, NormalizedContent: normalized, Flags: flags}
	}

	return model.RoutePlan{Kind: model.RouteOOXMLEngine, NormalizedContent: normalized, Flags: flags}
}

// materializeEscapes turns the literal two-character escape sequences a host
// may pass through ("\\n", "\\t") into their real control characters, so
// downstream multi-line/block detection sees the content the way a user
// typed it rather than its transport encoding.
func materializeEscapes(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}

func isMultiLine(s string) bool {
	return strings.Contains(strings.TrimRight(s, "\n"), "\n")
}

// SingleLineListCandidate reports whether content is a single marker-prefixed
// line eligible for the single-line-list-fallback of spec.md §4.10, used
// when the diff path yields zero changes.
func SingleLineListCandidate(content string, targetAlreadyListBound bool) (model.ParsedListItem, bool) {
	if targetAlreadyListBound {
		return model.ParsedListItem{}, false
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 1 {
		return model.ParsedListItem{}, false
	}
	cl := mdpre.ClassifyLine(lines[0])
	if cl.Kind != mdpre.LineListItem {
		return model.ParsedListItem{}, false
	}
	return model.ParsedListItem{Text: cl.Text, Level: cl.Indent / 2, MarkerStyle: cl.Marker}, true
}
