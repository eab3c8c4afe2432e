// Package ingest implements the Paragraph Ingestor (spec.md §4.1): it
// parses a WML fragment rooted at a paragraph into an ordered Run Model
// with character offsets.
//
// Grounded on the teacher's extractParagraphsFromXML/extractTextFromXML
// (src/read.go) for the traversal shape (paragraph → runs → text),
// deliberately replacing its regex-over-bytes technique with a DOM walk
// over internal/xmladapter nodes, per spec.md §9.
package ingest

import (
	"strconv"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Result is the Paragraph Ingestor's output per spec.md §4.1.
type Result struct {
	RunModel            *model.RunModel
	AcceptedText        string
	ParagraphProperties *xmladapter.Node
	NumberingContext     *model.NumberingContext
	ParagraphIdentity    string
}

// Ingest parses a paragraph fragment (already decoded via xmladapter.Parse)
// into a Run Model, walking child nodes depth-first in document order.
func Ingest(p *xmladapter.Node) (*Result, error) {
	if p == nil || p.Local != "p" {
		return nil, &malformedError{reason: "fragment is not rooted at a paragraph element"}
	}

	rm := &model.RunModel{}
	offset := 0

	for _, child := range p.Children {
		if child.IsText || child.IsRaw {
			continue
		}
		switch child.Local {
		case "pPr":
			rm.ParagraphProperties = child
			rm.NumberingContext = extractNumberingContext(child)
			continue
		case "proofErr", "bookmarkStart", "bookmarkEnd":
			rm.Entries = append(rm.Entries, zeroWidthEntry(child))
			continue
		}
		entries, adv := ingestNode(child)
		for i := range entries {
			if entries[i].IsTextBearing() && entries[i].Kind != model.RunDeletion {
				entries[i].StartOffset = offset
				offset += len([]rune(entries[i].Text))
				entries[i].EndOffset = offset
			}
		}
		rm.Entries = append(rm.Entries, entries...)
		_ = adv
	}

	return &Result{
		RunModel:            rm,
		AcceptedText:        rm.AcceptedText(),
		ParagraphProperties: rm.ParagraphProperties,
		NumberingContext:     rm.NumberingContext,
	}, nil
}

func extractNumberingContext(pPr *xmladapter.Node) *model.NumberingContext {
	numPr := pPr.Child("numPr")
	if numPr == nil {
		return nil
	}
	ctx := &model.NumberingContext{}
	if ilvl := numPr.Child("ilvl"); ilvl != nil {
		if v, ok := ilvl.Attr("val"); ok {
			ctx.ILvl, _ = strconv.Atoi(v)
		}
	}
	if numID := numPr.Child("numId"); numID != nil {
		if v, ok := numID.Attr("val"); ok {
			ctx.NumID, _ = strconv.Atoi(v)
		}
	}
	return ctx
}

func zeroWidthEntry(n *xmladapter.Node) model.RunEntry {
	kind := model.RunBookmark
	if n.Local == "proofErr" {
		kind = model.RunField // opaque marker, zero-width, non-semantic
	}
	return model.RunEntry{Kind: kind, NodeXML: n}
}

// ingestNode dispatches one child of the paragraph (or of a container) to
// its Run Entry shape. The second return value is the rune count of a
// plain run's text; every other case, including the del/ins/sdt/hyperlink
// containers, returns 0. The top-level walk ignores it (offsets are
// assigned by the caller).
func ingestNode(n *xmladapter.Node) ([]model.RunEntry, int) {
	switch n.Local {
	case "del":
		text := recoverDeletedText(n)
		return []model.RunEntry{{Kind: model.RunDeletion, Text: text, Author: attrOr(n, "author", "")}}, 0

	case "ins":
		var out []model.RunEntry
		for _, c := range n.Children {
			if c.IsText || c.IsRaw {
				continue
			}
			sub, _ := ingestNode(c)
			out = append(out, sub...)
		}
		return out, 0

	case "sdt", "smartTag":
		var out []model.RunEntry
		out = append(out, model.RunEntry{Kind: model.RunContainerStart, NodeXML: containerOpenPayload(n), ContainerTag: n.Local})
		inner := n.Child("sdtContent")
		if inner == nil {
			inner = n
		}
		for _, c := range inner.Children {
			if c.IsText || c.IsRaw {
				continue
			}
			sub, _ := ingestNode(c)
			out = append(out, sub...)
		}
		out = append(out, model.RunEntry{Kind: model.RunContainerEnd, NodeXML: containerClosePayload(n), ContainerTag: n.Local})
		return out, 0

	case "hyperlink":
		var out []model.RunEntry
		out = append(out, model.RunEntry{Kind: model.RunContainerStart, NodeXML: containerOpenPayload(n), ContainerTag: "hyperlink"})
		for _, c := range n.Children {
			if c.IsText || c.IsRaw {
				continue
			}
			sub, _ := ingestNode(c)
			out = append(out, sub...)
		}
		out = append(out, model.RunEntry{Kind: model.RunContainerEnd, NodeXML: containerClosePayload(n), ContainerTag: "hyperlink"})
		return out, 0

	case "r":
		text := runText(n)
		rPr := n.Child("rPr")
		return []model.RunEntry{{Kind: model.RunText, Text: text, RunPropertiesXML: rPr}}, len([]rune(text))

	case "bookmarkStart", "bookmarkEnd", "proofErr":
		return []model.RunEntry{zeroWidthEntry(n)}, 0

	default:
		// Unknown elements are opaque container content, preserved
		// verbatim per spec.md §1's "treats unknown elements as opaque"
		// rule.
		return []model.RunEntry{{Kind: model.RunField, NodeXML: n}}, 0
	}
}

// runText concatenates literal text, tab (→"\t"), and break (→"\n")
// descendants of a run, per spec.md §4.1.
func runText(r *xmladapter.Node) string {
	var out []byte
	for _, c := range r.Children {
		if c.IsText || c.IsRaw {
			continue
		}
		switch c.Local {
		case "t":
			out = append(out, c.Text()...)
		case "tab":
			out = append(out, '\t')
		case "br", "cr":
			out = append(out, '\n')
		case "delText":
			out = append(out, c.Text()...)
		}
	}
	return string(out)
}

// recoverDeletedText walks a <w:del> element's runs, reading delText
// instead of t, to reconstruct the text that was deleted.
func recoverDeletedText(del *xmladapter.Node) string {
	var out []byte
	for _, c := range del.Children {
		if c.IsText || c.IsRaw || c.Local != "r" {
			continue
		}
		out = append(out, runText(c)...)
	}
	return string(out)
}

func containerOpenPayload(n *xmladapter.Node) *xmladapter.Node {
	open := xmladapter.NewElement(n.Local, n.Attrs...)
	open.Space = n.Space
	return open
}

// containerClosePayload carries just enough of the container element
// (space/local) for the Serializer to emit a matching closing tag.
func containerClosePayload(n *xmladapter.Node) *xmladapter.Node {
	return &xmladapter.Node{Space: n.Space, Local: n.Local}
}

func attrOr(n *xmladapter.Node, local, fallback string) string {
	if v, ok := n.Attr(local); ok {
		return v
	}
	return fallback
}

type malformedError struct{ reason string }

func (e *malformedError) Error() string { return e.reason }
