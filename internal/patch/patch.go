// Package patch implements the Run Splitter & Patcher (spec.md §4.4): it
// subdivides a Run Model's text-bearing entries at diff boundaries and
// rewrites them into the tracked-change Run Model, or — when the diff
// carries no inserts/deletes — emits run-property-change markers for a
// format-only edit.
//
// Grounded on the teacher's paragraph.go writeRunTextWithControls (splitting
// run text at control-character boundaries while carrying run properties
// along), generalized here from control-character boundaries to diff-
// boundary positions.
package patch

import (
	"sort"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Patch applies a diff operation sequence to rm's text-bearing entries,
// converting them to deletion/insertion Run Entries per spec.md §4.4's
// patching policy. When ops contains no insert/delete (text is unchanged),
// it instead runs the format-only path and reports formatOnly = true.
func Patch(rm *model.RunModel, ops []model.DiffOp, hints []model.FormatHint, author string) (patched *model.RunModel, formatOnly bool) {
	if !hasEdits(ops) {
		return formatOnlyPatch(rm, hints), true
	}

	ops = splitInsertsAtHintBoundaries(ops, hints)

	boundaries := collectBoundaries(ops)
	split := splitAtBoundaries(rm.Entries, boundaries)

	out := &model.RunModel{
		ParagraphProperties: rm.ParagraphProperties,
		NumberingContext:    rm.NumberingContext,
		ParagraphIdentity:   rm.ParagraphIdentity,
	}

	opIdx := 0
	var neighborProps *xmladapter.Node

	emitInsertsAt := func(pos int) {
		for opIdx < len(ops) && ops[opIdx].Kind == model.DiffInsert && ops[opIdx].OldStart == pos {
			props := propsForInsert(ops[opIdx], hints, neighborProps)
			out.Entries = append(out.Entries, model.RunEntry{
				Kind:             model.RunInsertion,
				Text:             ops[opIdx].Text,
				Author:           author,
				RunPropertiesXML: props,
			})
			opIdx++
		}
	}

	for _, e := range split {
		if !e.IsTextBearing() || e.Kind == model.RunDeletion {
			out.Entries = append(out.Entries, e)
			continue
		}

		emitInsertsAt(e.StartOffset)

		if opIdx < len(ops) && ops[opIdx].Kind != model.DiffInsert {
			switch ops[opIdx].Kind {
			case model.DiffDelete:
				e.Kind = model.RunDeletion
				e.Author = author
			case model.DiffEqual:
				// pass-through unchanged
			}
			if e.EndOffset >= ops[opIdx].OldEnd {
				opIdx++
			}
		}

		if e.Kind != model.RunDeletion {
			neighborProps = e.RunPropertiesXML
		}
		out.Entries = append(out.Entries, e)
	}

	// Trailing inserts anchored past the last text-bearing entry.
	emitInsertsAt(oldTextLength(rm))
	for opIdx < len(ops) && ops[opIdx].Kind == model.DiffInsert {
		props := propsForInsert(ops[opIdx], hints, neighborProps)
		out.Entries = append(out.Entries, model.RunEntry{
			Kind:             model.RunInsertion,
			Text:             ops[opIdx].Text,
			Author:           author,
			RunPropertiesXML: props,
		})
		opIdx++
	}

	return out, false
}

func hasEdits(ops []model.DiffOp) bool {
	for _, op := range ops {
		if op.Kind != model.DiffEqual {
			return true
		}
	}
	return false
}

func oldTextLength(rm *model.RunModel) int {
	max := 0
	for _, e := range rm.Entries {
		if e.IsTextBearing() && e.Kind != model.RunDeletion && e.EndOffset > max {
			max = e.EndOffset
		}
	}
	return max
}

// collectBoundaries returns the sorted, deduplicated set of old-text
// positions every equal/delete op's Old{Start,End} introduces.
func collectBoundaries(ops []model.DiffOp) []int {
	set := map[int]struct{}{}
	for _, op := range ops {
		if op.Kind == model.DiffInsert {
			continue
		}
		set[op.OldStart] = struct{}{}
		set[op.OldEnd] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// splitAtBoundaries subdivides text-bearing entries so no entry straddles a
// boundary position, per spec.md §4.4's splitting rule. Non-text entries and
// existing deletions pass through untouched.
func splitAtBoundaries(entries []model.RunEntry, boundaries []int) []model.RunEntry {
	var out []model.RunEntry
	for _, e := range entries {
		if !e.IsTextBearing() || e.Kind == model.RunDeletion {
			out = append(out, e)
			continue
		}
		out = append(out, splitOne(e, boundaries)...)
	}
	return out
}

func splitOne(e model.RunEntry, boundaries []int) []model.RunEntry {
	var cuts []int
	for _, b := range boundaries {
		if b > e.StartOffset && b < e.EndOffset {
			cuts = append(cuts, b)
		}
	}
	if len(cuts) == 0 {
		return []model.RunEntry{e}
	}
	sort.Ints(cuts)
	runes := []rune(e.Text)
	var out []model.RunEntry
	prev := e.StartOffset
	for _, c := range cuts {
		seg := e
		seg.Text = string(runes[prev-e.StartOffset : c-e.StartOffset])
		seg.StartOffset = prev
		seg.EndOffset = c
		out = append(out, seg)
		prev = c
	}
	tail := e
	tail.Text = string(runes[prev-e.StartOffset:])
	tail.StartOffset = prev
	tail.EndOffset = e.EndOffset
	out = append(out, tail)
	return out
}

// splitInsertsAtHintBoundaries subdivides each insert op at any Format Hint
// boundary falling strictly inside its new-text range, so propsForInsert can
// assign formatting per sub-run instead of OR-ing together every hint that
// touches any part of the op's full span and applying the union to all of
// it (e.g. an insert spanning "Hello **world** there" must bold only
// "world", not the whole inserted run).
func splitInsertsAtHintBoundaries(ops []model.DiffOp, hints []model.FormatHint) []model.DiffOp {
	if len(hints) == 0 {
		return ops
	}
	var boundaries []int
	for _, h := range hints {
		boundaries = append(boundaries, h.Start, h.End)
	}

	var out []model.DiffOp
	for _, op := range ops {
		if op.Kind != model.DiffInsert {
			out = append(out, op)
			continue
		}
		out = append(out, splitInsertOp(op, boundaries)...)
	}
	return out
}

func splitInsertOp(op model.DiffOp, boundaries []int) []model.DiffOp {
	var cuts []int
	for _, b := range boundaries {
		if b > op.NewStart && b < op.NewEnd {
			cuts = append(cuts, b)
		}
	}
	if len(cuts) == 0 {
		return []model.DiffOp{op}
	}
	sort.Ints(cuts)
	runes := []rune(op.Text)
	var out []model.DiffOp
	prev := op.NewStart
	for _, c := range cuts {
		seg := op
		seg.Text = string(runes[prev-op.NewStart : c-op.NewStart])
		seg.NewStart = prev
		seg.NewEnd = c
		out = append(out, seg)
		prev = c
	}
	tail := op
	tail.Text = string(runes[prev-op.NewStart:])
	tail.NewStart = prev
	tail.NewEnd = op.NewEnd
	out = append(out, tail)
	return out
}

// propsForInsert inherits run properties from the left neighbor per spec.md
// §4.4, unless a Format Hint over the inserted range's new-text coordinates
// specifies otherwise, in which case the inherited base is re-flagged.
func propsForInsert(op model.DiffOp, hints []model.FormatHint, leftNeighbor *xmladapter.Node) *xmladapter.Node {
	flags, found := hintFlagsFor(hints, op.NewStart, op.NewEnd)
	if !found {
		return cloneProps(leftNeighbor)
	}
	return applyFormatFlags(leftNeighbor, flags)
}

func hintFlagsFor(hints []model.FormatHint, start, end int) (model.FormatFlags, bool) {
	var flags model.FormatFlags
	found := false
	for _, h := range hints {
		if h.Start < end && h.End > start {
			flags |= h.Flags
			found = true
		}
	}
	return flags, found
}

func cloneProps(n *xmladapter.Node) *xmladapter.Node {
	if n == nil {
		return nil
	}
	return n.Clone()
}

// formatOnlyPatch implements spec.md §4.4's format-only and surgical-format-
// removal paths: for every text-bearing entry whose span intersects a
// Format Hint — or whose existing properties encode a flag the new text's
// hints no longer carry — it splits the entry at the hint boundary and
// records a run-property-change marker instead of converting to an
// insertion/deletion.
func formatOnlyPatch(rm *model.RunModel, hints []model.FormatHint) *model.RunModel {
	var boundaries []int
	for _, h := range hints {
		boundaries = append(boundaries, h.Start, h.End)
	}

	out := &model.RunModel{
		ParagraphProperties: rm.ParagraphProperties,
		NumberingContext:    rm.NumberingContext,
		ParagraphIdentity:   rm.ParagraphIdentity,
	}
	for _, e := range splitAtBoundaries(rm.Entries, boundaries) {
		if !e.IsTextBearing() || e.Kind == model.RunDeletion {
			out.Entries = append(out.Entries, e)
			continue
		}
		target, _ := hintFlagsFor(hints, e.StartOffset, e.EndOffset)
		current := formatFlagsOf(e.RunPropertiesXML)
		if target != current {
			e.PropertyChangeXML = cloneProps(e.RunPropertiesXML)
			e.RunPropertiesXML = applyFormatFlags(e.RunPropertiesXML, target)
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// formatFlagsOf inspects an rPr node's toggle/appearance children to recover
// the FormatFlags it currently encodes.
func formatFlagsOf(rPr *xmladapter.Node) model.FormatFlags {
	if rPr == nil {
		return 0
	}
	var flags model.FormatFlags
	if rPr.Child("b") != nil {
		flags |= model.FormatBold
	}
	if rPr.Child("i") != nil {
		flags |= model.FormatItalic
	}
	if rPr.Child("u") != nil {
		flags |= model.FormatUnderline
	}
	if rPr.Child("strike") != nil {
		flags |= model.FormatStrikethrough
	}
	if va := rPr.Child("vertAlign"); va != nil {
		if v, ok := va.Attr("val"); ok {
			switch v {
			case "subscript":
				flags |= model.FormatSubscript
			case "superscript":
				flags |= model.FormatSuperscript
			}
		}
	}
	return flags
}

// applyFormatFlags clones base (or starts a bare rPr) and adds/removes the
// toggle elements so the result encodes exactly flags.
func applyFormatFlags(base *xmladapter.Node, flags model.FormatFlags) *xmladapter.Node {
	var props *xmladapter.Node
	if base != nil {
		props = base.Clone()
	} else {
		props = xmladapter.NewElement("rPr")
	}
	props.Local = "rPr"
	setToggle(props, "b", flags&model.FormatBold != 0)
	setToggle(props, "i", flags&model.FormatItalic != 0)
	setToggleWithVal(props, "u", flags&model.FormatUnderline != 0, "val", "single")
	setToggle(props, "strike", flags&model.FormatStrikethrough != 0)
	setVertAlign(props, flags)
	return props
}

func setToggle(props *xmladapter.Node, local string, on bool) {
	removeChild(props, local)
	if on {
		props.Children = append(props.Children, xmladapter.NewElement(local))
	}
}

func setToggleWithVal(props *xmladapter.Node, local string, on bool, attrLocal, val string) {
	removeChild(props, local)
	if on {
		el := xmladapter.NewElement(local)
		el.SetAttr("", attrLocal, val)
		props.Children = append(props.Children, el)
	}
}

func setVertAlign(props *xmladapter.Node, flags model.FormatFlags) {
	removeChild(props, "vertAlign")
	switch {
	case flags&model.FormatSubscript != 0:
		el := xmladapter.NewElement("vertAlign")
		el.SetAttr("", "val", "subscript")
		props.Children = append(props.Children, el)
	case flags&model.FormatSuperscript != 0:
		el := xmladapter.NewElement("vertAlign")
		el.SetAttr("", "val", "superscript")
		props.Children = append(props.Children, el)
	}
}

func removeChild(props *xmladapter.Node, local string) {
	var kept []*xmladapter.Node
	for _, c := range props.Children {
		if c.IsText || c.IsRaw || c.Local != local {
			kept = append(kept, c)
		}
	}
	props.Children = kept
}
