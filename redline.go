package reconcile

import (
	"strconv"

	"github.com/falcomza/reconcile/internal/ingest"
	"github.com/falcomza/reconcile/internal/listgen"
	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/patch"
	"github.com/falcomza/reconcile/internal/route"
	"github.com/falcomza/reconcile/internal/serialize"
	"github.com/falcomza/reconcile/internal/worddiff"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// ApplyRedlineToParagraphFragment reconciles a proposed newContent against
// oldWML (a single <w:p> fragment), dispatching through the Route Planner
// (spec.md §4.10) to the matching flow and returning tracked-change WML, per
// spec.md §6 contract 1.
func ApplyRedlineToParagraphFragment(ctx *Context, oldWML, oldText, newContent string, opts RedlineOptions) (RedlineResult, error) {
	p, err := xmladapter.Parse(oldWML)
	if err != nil {
		return RedlineResult{}, NewMalformedInputXMLError(err)
	}
	ing, err := ingest.Ingest(p)
	if err != nil {
		return RedlineResult{}, NewMalformedInputXMLError(err)
	}

	plan := route.Plan(oldText, newContent)
	serializeOpts := serialize.Options{Author: ctx.Author, Date: ctx.Clock(), NextRevisionID: ctx.NextRevisionID}
	if opts.Author != "" {
		serializeOpts.Author = opts.Author
	}

	switch plan.Kind {
	case model.RouteStructuredListDirect, model.RouteBlockHTML:
		return applyViaListgen(ctx, ing, plan, oldText, serializeOpts)
	default:
		return applyViaOOXMLEngine(ctx, ing, plan, oldText, newContent, serializeOpts, !opts.GenerateRedlines)
	}
}

func applyViaListgen(ctx *Context, ing *ingest.Result, plan RoutePlan, oldText string, serializeOpts serialize.Options) (RedlineResult, error) {
	paras, err := listgen.Generate(plan.NormalizedContent, listgen.Options{
		Numbering:    ctx.Numbering(),
		OriginalText: oldText,
		Author:       serializeOpts.Author,
	})
	if err != nil {
		return RedlineResult{}, NewInconsistentNumberingMergeError(err.Error())
	}
	var wml string
	for _, para := range paras {
		wml += serialize.Serialize(para.RunModel, serializeOpts)
	}
	return RedlineResult{WML: wml, HasChanges: true, SurgicalChanges: false}, nil
}

func applyViaOOXMLEngine(ctx *Context, ing *ingest.Result, plan RoutePlan, oldText, newContent string, serializeOpts serialize.Options, suppressRedlines bool) (RedlineResult, error) {
	clean, hints := mdpre.Strip(plan.NormalizedContent)
	ops := worddiff.Diff(oldText, clean)

	patched, formatOnly := patch.Patch(ing.RunModel, ops, hints, serializeOpts.Author)
	hasChanges := hasAnyEdit(ops) || formatOnly && formatOnlyChangedSomething(ing.RunModel, patched)

	if !hasChanges {
		if item, ok := route.SingleLineListCandidate(newContent, ing.NumberingContext != nil); ok {
			return applySingleLineListFallback(ctx, item, newContent, serializeOpts)
		}
	}

	if suppressRedlines {
		patched = acceptAllChanges(patched)
	}

	result := RedlineResult{
		WML:          serialize.Serialize(patched, serializeOpts),
		HasChanges:   hasChanges,
		FormatHints:  hints,
		IsFormatOnly: formatOnly,
	}
	return result, nil
}

// acceptAllChanges flattens a patched Run Model as if every tracked change
// were already accepted: deletions are dropped, insertions become plain
// text runs — used when RedlineOptions.GenerateRedlines is false.
func acceptAllChanges(rm *model.RunModel) *model.RunModel {
	out := &model.RunModel{
		ParagraphProperties: rm.ParagraphProperties,
		NumberingContext:    rm.NumberingContext,
		ParagraphIdentity:   rm.ParagraphIdentity,
	}
	for _, e := range rm.Entries {
		switch e.Kind {
		case model.RunDeletion:
			continue
		case model.RunInsertion:
			e.Kind = model.RunText
			e.Author = ""
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// applySingleLineListFallback synthesizes a single list paragraph and
// applies a start-override so the marker's own starting number is
// preserved, per spec.md §4.10's single-line-list-fallback, carrying the
// numbering-key -> {numId, nextStartAt} sequence across calls via
// ctx.Sequences().
func applySingleLineListFallback(ctx *Context, item model.ParsedListItem, newContent string, serializeOpts serialize.Options) (RedlineResult, error) {
	key := sequenceKey(item)
	startAt := 1
	var numID int
	var err error

	if entry, ok := ctx.Sequences().Lookup(key); ok {
		numID = entry.NumID
		startAt = entry.NextStartAt
	} else {
		numID, err = ctx.Numbering().ObtainForStyle(key, []numbering.LevelFormat{{ILvl: item.Level, Format: markerFormat(item.MarkerStyle), Text: "%1.", StartAt: 1}})
		if err != nil {
			return RedlineResult{}, NewInconsistentNumberingMergeError(err.Error())
		}
	}

	paras, genErr := listgen.Generate(item.Text, listgen.Options{Numbering: nil, Author: serializeOpts.Author})
	if genErr != nil || len(paras) == 0 {
		return RedlineResult{}, NewInconsistentNumberingMergeError("single-line list fallback produced no paragraph")
	}
	rm := paras[0].RunModel
	rm.NumberingContext = &model.NumberingContext{NumID: numID, ILvl: item.Level}
	numPrPPr := rm.ParagraphProperties
	if numPrPPr == nil {
		numPrPPr = xmladapter.NewElement("pPr")
		numPrPPr.Space = "w"
	}
	numPr := xmladapter.NewElement("numPr")
	numPr.Space = "w"
	ilvlNode := xmladapter.NewElement("ilvl")
	ilvlNode.Space = "w"
	ilvlNode.SetAttr("w", "val", strconv.Itoa(item.Level))
	numIDNode := xmladapter.NewElement("numId")
	numIDNode.Space = "w"
	numIDNode.SetAttr("w", "val", strconv.Itoa(numID))
	numPr.Children = append(numPr.Children, ilvlNode, numIDNode)
	numPrPPr.Children = append(numPrPPr.Children, numPr)
	rm.ParagraphProperties = numPrPPr

	ctx.Sequences().Advance(key, numID, startAt+1)
	ctx.Numbering().SetStartOverride(numID, startAt)

	return RedlineResult{
		WML:        serialize.Serialize(rm, serializeOpts),
		HasChanges: true,
	}, nil
}

func sequenceKey(item model.ParsedListItem) string {
	return "singleline:" + markerFormat(item.MarkerStyle)
}

func markerFormat(m model.MarkerStyle) string {
	switch m {
	case model.MarkerDecimal:
		return "decimal"
	case model.MarkerLowerAlpha:
		return "lowerLetter"
	case model.MarkerUpperAlpha:
		return "upperLetter"
	case model.MarkerLowerRoman:
		return "lowerRoman"
	case model.MarkerUpperRoman:
		return "upperRoman"
	default:
		return "bullet"
	}
}

func hasAnyEdit(ops []model.DiffOp) bool {
	for _, op := range ops {
		if op.Kind != model.DiffEqual {
			return true
		}
	}
	return false
}

// formatOnlyChangedSomething reports whether the format-only path actually
// rewrote any run (added a property-change marker), distinguishing a true
// no-op from a surgical format edit.
func formatOnlyChangedSomething(before, after *model.RunModel) bool {
	if before == after {
		return false
	}
	for _, e := range after.Entries {
		if e.PropertyChangeXML != nil {
			return true
		}
	}
	return len(before.Entries) != len(after.Entries)
}
