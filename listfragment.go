package reconcile

import (
	"github.com/falcomza/reconcile/internal/listgen"
	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/serialize"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// GenerateListFragment turns a block of Markdown list lines into WML list
// paragraphs, per spec.md §6 contract 2. When numCtx is non-nil, the first
// marker family encountered is presented as continuing numCtx's existing
// list (its numId/ilvl) instead of allocating a new one.
func GenerateListFragment(ctx *Context, markdown string, numCtx *NumberingContext, opts ListOptions) (ListResult, error) {
	if numCtx != nil {
		if sig, levels, ok := firstListSignature(markdown, numCtx.ILvl); ok {
			ctx.Numbering().Preset(sig, numCtx.NumID, levels)
		}
	}

	author := opts.Author
	if author == "" {
		author = ctx.Author
	}

	paras, err := listgen.Generate(markdown, listgen.Options{
		Numbering:    ctx.Numbering(),
		OriginalText: opts.OriginalText,
		Author:       author,
	})
	if err != nil {
		return ListResult{}, NewInconsistentNumberingMergeError(err.Error())
	}

	serializeOpts := serialize.Options{Author: author, Date: ctx.Clock(), NextRevisionID: ctx.NextRevisionID}
	var wml string
	includeNumbering := false
	for _, p := range paras {
		wml += serialize.Serialize(p.RunModel, serializeOpts)
		if p.IsListItem {
			includeNumbering = true
		}
	}

	result := ListResult{WML: wml, IncludeNumbering: includeNumbering}
	if includeNumbering {
		result.NumberingXML = xmladapter.Serialize(ctx.Numbering().EmitPart())
	}
	return result, nil
}

// firstListSignature classifies content line by line and returns the style
// signature plus level formats of the first list item encountered, so its
// numbering family can be Preset to an existing numId.
func firstListSignature(content string, ilvl int) (string, []numbering.LevelFormat, bool) {
	lines, ok := splitLines(content)
	if !ok {
		return "", nil, false
	}
	for _, l := range lines {
		cl := mdpre.ClassifyLine(l)
		if cl.Kind != mdpre.LineListItem {
			continue
		}
		return listgen.StyleSignatureFor(cl.Marker), []numbering.LevelFormat{listgen.LevelFormatFor(cl.Marker, ilvl)}, true
	}
	return "", nil, false
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
