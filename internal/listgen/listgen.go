// Package listgen implements List Generation (spec.md §4.7): it turns a
// block of lines carrying Markdown list markers/headings into a sequence of
// WML list paragraphs sharing a numbering identifier, with optional
// deletion-marker reconstruction of the original paragraph's text.
//
// Grounded on the teacher's ListType enum (ListTypeBullet/ListTypeNumbered)
// and generateParagraphXML's numPr (ilvl+numId) emission in paragraph.go,
// generalized from the teacher's single-level flat lists to multi-level,
// mixed-marker blocks — the teacher has no precedent for multi-level list
// detection or indentation-step inference, so that part is built fresh
// against internal/xmladapter and internal/mdpre's marker classification.
package listgen

import (
	"sort"
	"strconv"

	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Paragraph is one generated paragraph, carrying either plain/heading runs
// or a list item's numbering context.
type Paragraph struct {
	RunModel   *model.RunModel
	IsHeading  bool
	HeadingLvl int
	IsListItem bool
}

// Options configures generation.
type Options struct {
	Numbering *numbering.Service
	// OriginalText, when non-empty, is reconstructed as a leading tracked
	// deletion on the first generated paragraph, per spec.md §4.7's
	// reconciliation rule.
	OriginalText string
	Author       string
}

// styleSignature groups every line produced by the same marker family into
// one list (one numId), matching spec.md §4.7's "numbering identifier
// derived from the marker's inferred format" rule.
func styleSignature(marker model.MarkerStyle) string {
	switch marker {
	case model.MarkerBullet:
		return "list:bullet"
	case model.MarkerDecimal:
		return "list:decimal"
	case model.MarkerLowerAlpha:
		return "list:lower-alpha"
	case model.MarkerUpperAlpha:
		return "list:upper-alpha"
	case model.MarkerLowerRoman:
		return "list:lower-roman"
	case model.MarkerUpperRoman:
		return "list:upper-roman"
	default:
		return "list:bullet"
	}
}

func levelFormat(marker model.MarkerStyle, ilvl int) numbering.LevelFormat {
	switch marker {
	case model.MarkerDecimal:
		return numbering.LevelFormat{ILvl: ilvl, Format: "decimal", Text: levelText(ilvl) + ".", StartAt: 1}
	case model.MarkerLowerAlpha:
		return numbering.LevelFormat{ILvl: ilvl, Format: "lowerLetter", Text: levelText(ilvl) + ".", StartAt: 1}
	case model.MarkerUpperAlpha:
		return numbering.LevelFormat{ILvl: ilvl, Format: "upperLetter", Text: levelText(ilvl) + ".", StartAt: 1}
	case model.MarkerLowerRoman:
		return numbering.LevelFormat{ILvl: ilvl, Format: "lowerRoman", Text: levelText(ilvl) + ".", StartAt: 1}
	case model.MarkerUpperRoman:
		return numbering.LevelFormat{ILvl: ilvl, Format: "upperRoman", Text: levelText(ilvl) + ".", StartAt: 1}
	default:
		return numbering.LevelFormat{ILvl: ilvl, Format: "bullet", Text: "", StartAt: 1}
	}
}

func levelText(ilvl int) string {
	return "%" + strconv.Itoa(ilvl+1)
}

// StyleSignatureFor exposes styleSignature for callers outside this package
// that need to pre-register a numbering identifier (e.g. a list the new
// content continues) before calling Generate.
func StyleSignatureFor(marker model.MarkerStyle) string {
	return styleSignature(marker)
}

// LevelFormatFor exposes levelFormat for the same external pre-registration
// use case as StyleSignatureFor.
func LevelFormatFor(marker model.MarkerStyle, ilvl int) numbering.LevelFormat {
	return levelFormat(marker, ilvl)
}

// Generate classifies content line by line and produces one Paragraph per
// heading, list item, or plain line. A list item's level is its indentation
// divided by the block's inferred indentation step (mdpre.IndentStep).
// Markdown-table lines are not grouped or turned into a table: each one
// becomes a plain paragraph.
func Generate(content string, opts Options) ([]Paragraph, error) {
	lines, ok := splitLines(content)
	if !ok {
		return nil, nil
	}

	classified := make([]mdpre.ClassifiedLine, 0, len(lines))
	for _, l := range lines {
		classified = append(classified, mdpre.ClassifyLine(l))
	}

	step := mdpre.IndentStep(classified)

	var out []Paragraph
	for _, cl := range classified {
		switch cl.Kind {
		case mdpre.LineHeading:
			out = append(out, headingParagraph(cl))
		case mdpre.LineListItem:
			p, err := listItemParagraph(cl, step, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		default:
			out = append(out, plainParagraph(cl.Text))
		}
	}

	if opts.OriginalText != "" && len(out) > 0 {
		prependDeletion(out[0].RunModel, opts.OriginalText, opts.Author)
	}

	return out, nil
}

func splitLines(content string) ([]string, bool) {
	if content == "" {
		return nil, false
	}
	var lines []string
	start := 0
	for i, r := range content {
		if r == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		}
	}
	lines = append(lines, content[start:])
	return lines, true
}

func headingParagraph(cl mdpre.ClassifiedLine) Paragraph {
	clean, hints := mdpre.Strip(cl.Text)
	rm := &model.RunModel{
		ParagraphProperties: headingProps(cl.HeadingLvl),
		Entries:             entriesForRun(clean, hints),
	}
	return Paragraph{RunModel: rm, IsHeading: true, HeadingLvl: cl.HeadingLvl}
}

func plainParagraph(text string) Paragraph {
	clean, hints := mdpre.Strip(text)
	rm := &model.RunModel{Entries: entriesForRun(clean, hints)}
	return Paragraph{RunModel: rm}
}

func listItemParagraph(cl mdpre.ClassifiedLine, step int, opts Options) (Paragraph, error) {
	ilvl := cl.Indent / step
	sig := styleSignature(cl.Marker)
	var numID int
	var err error
	if opts.Numbering != nil {
		numID, err = opts.Numbering.ObtainForStyle(sig, []numbering.LevelFormat{levelFormat(cl.Marker, ilvl)})
		if err != nil {
			return Paragraph{}, err
		}
	}

	clean, hints := mdpre.Strip(cl.Text)
	pPr := xmladapter.NewElement("pPr")
	pPr.Space = "w"
	numPr := xmladapter.NewElement("numPr")
	numPr.Space = "w"
	ilvlNode := xmladapter.NewElement("ilvl")
	ilvlNode.Space = "w"
	ilvlNode.SetAttr("w", "val", strconv.Itoa(ilvl))
	numIDNode := xmladapter.NewElement("numId")
	numIDNode.Space = "w"
	numIDNode.SetAttr("w", "val", strconv.Itoa(numID))
	numPr.Children = append(numPr.Children, ilvlNode, numIDNode)
	pPr.Children = append(pPr.Children, numPr)

	rm := &model.RunModel{
		ParagraphProperties: pPr,
		NumberingContext:    &model.NumberingContext{NumID: numID, ILvl: ilvl},
		Entries:             entriesForRun(clean, hints),
	}
	return Paragraph{RunModel: rm, IsListItem: true}, nil
}

func headingProps(lvl int) *xmladapter.Node {
	pPr := xmladapter.NewElement("pPr")
	pPr.Space = "w"
	style := xmladapter.NewElement("pStyle")
	style.Space = "w"
	style.SetAttr("w", "val", "Heading"+strconv.Itoa(lvl))
	pPr.Children = append(pPr.Children, style)
	return pPr
}

// entriesForRun builds a single RunText entry per clean/hints pair, or
// multiple entries split at hint boundaries when formatting is present.
func entriesForRun(clean string, hints []model.FormatHint) []model.RunEntry {
	if len(hints) == 0 {
		return []model.RunEntry{{Kind: model.RunText, Text: clean}}
	}
	runes := []rune(clean)
	boundarySet := map[int]struct{}{0: {}, len(runes): {}}
	for _, h := range hints {
		boundarySet[h.Start] = struct{}{}
		boundarySet[h.End] = struct{}{}
	}
	bounds := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)

	var entries []model.RunEntry
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if start == end {
			continue
		}
		flags := flagsOver(hints, start, end)
		entries = append(entries, model.RunEntry{
			Kind:             model.RunText,
			Text:             string(runes[start:end]),
			RunPropertiesXML: propsForFlags(flags),
		})
	}
	return entries
}

func flagsOver(hints []model.FormatHint, start, end int) model.FormatFlags {
	var flags model.FormatFlags
	for _, h := range hints {
		if h.Start < end && h.End > start {
			flags |= h.Flags
		}
	}
	return flags
}

func propsForFlags(flags model.FormatFlags) *xmladapter.Node {
	if flags == 0 {
		return nil
	}
	rPr := xmladapter.NewElement("rPr")
	rPr.Space = "w"
	if flags&model.FormatBold != 0 {
		b := xmladapter.NewElement("b")
		b.Space = "w"
		rPr.Children = append(rPr.Children, b)
	}
	if flags&model.FormatItalic != 0 {
		i := xmladapter.NewElement("i")
		i.Space = "w"
		rPr.Children = append(rPr.Children, i)
	}
	if flags&model.FormatUnderline != 0 {
		u := xmladapter.NewElement("u")
		u.Space = "w"
		u.SetAttr("w", "val", "single")
		rPr.Children = append(rPr.Children, u)
	}
	if flags&model.FormatStrikethrough != 0 {
		s := xmladapter.NewElement("strike")
		s.Space = "w"
		rPr.Children = append(rPr.Children, s)
	}
	return rPr
}

// prependDeletion inserts a single RunDeletion entry at the front of rm,
// reconstructing the text the original paragraph held, per spec.md §4.7.
func prependDeletion(rm *model.RunModel, text, author string) {
	rm.Entries = append([]model.RunEntry{{Kind: model.RunDeletion, Text: text, Author: author}}, rm.Entries...)
}

