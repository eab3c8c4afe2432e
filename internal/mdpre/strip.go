package mdpre

import (
	"regexp"
	"sort"
	"strings"

	"github.com/falcomza/reconcile/internal/model"
)

type markerFamily struct {
	pattern *regexp.Regexp
	flag    model.FormatFlags
}

// families lists every inline marker in priority order. Bold is checked
// before the single-star italic pattern so "**x**" is never misread as
// nested italics.
func families() []markerFamily {
	return []markerFamily{
		{boldPattern, model.FormatBold},
		{underlinePattern, model.FormatUnderline},
		{strikePattern, model.FormatStrikethrough},
		{codePattern, model.FormatCode},
		{explicitUTagPattern, model.FormatUnderline},
		{explicitSTagPattern, model.FormatStrikethrough},
		{italicStarPattern, model.FormatItalic},
		{italicUnderPattern, model.FormatItalic},
	}
}

type genericMatch struct {
	start, end int // byte range of the whole marker in the source string
	innerStart int // byte offset of inner text within source
	inner      string
	flag       model.FormatFlags
}

// Strip removes the recognized inline Markdown subset from src and returns
// the clean text plus format hints anchored to clean-text rune offsets.
// Overlapping hints are merged (flag union) before return, per spec.md
// §4.2.
func Strip(src string) (string, []model.FormatHint) {
	var matches []genericMatch
	for _, fam := range families() {
		for _, loc := range fam.pattern.FindAllStringSubmatchIndex(src, -1) {
			matches = append(matches, genericMatch{
				start: loc[0], end: loc[1],
				innerStart: loc[2],
				inner:      src[loc[2]:loc[3]],
				flag:       fam.flag,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	// Resolve overlaps: matches are taken in order of start offset, and any
	// match that starts before the end of the last accepted match is
	// dropped; match length plays no part. This keeps bold's "**" consumed
	// before the italic single-star pattern can claim the interior stars.
	accepted := make([]genericMatch, 0, len(matches))
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			continue
		}
		accepted = append(accepted, m)
		cursor = m.end
	}

	var clean strings.Builder
	var hints []model.FormatHint
	pos := 0
	for _, m := range accepted {
		clean.WriteString(src[pos:m.start])
		hintStart := len([]rune(clean.String()))
		clean.WriteString(m.inner)
		hintEnd := len([]rune(clean.String()))
		hints = append(hints, model.FormatHint{Start: hintStart, End: hintEnd, Flags: m.flag})
		pos = m.end
	}
	clean.WriteString(src[pos:])

	return clean.String(), mergeOverlaps(hints)
}

// mergeOverlaps unions format flags for overlapping hints, producing a
// normalized non-overlapping set as spec.md §3 requires.
func mergeOverlaps(hints []model.FormatHint) []model.FormatHint {
	if len(hints) == 0 {
		return hints
	}
	sort.Slice(hints, func(i, j int) bool { return hints[i].Start < hints[j].Start })
	out := []model.FormatHint{hints[0]}
	for _, h := range hints[1:] {
		last := &out[len(out)-1]
		if h.Start <= last.End {
			if h.End > last.End {
				last.End = h.End
			}
			last.Flags |= h.Flags
			continue
		}
		out = append(out, h)
	}
	return out
}
