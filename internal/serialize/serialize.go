// Package serialize implements the Serializer (spec.md §4.5): it emits a
// WML paragraph from a patched Run Model, wrapping deletions/insertions in
// `<w:del>`/`<w:ins>` with allocated revision identifiers, and wraps
// property-change-only runs in an `<w:rPrChange>`-shaped marker.
//
// Grounded on falcomza-docx-chart-updater/trackchanges.go's
// generateTrackedInsertXMLWithID (paragraph/run <w:ins> wrapping, including
// marking the paragraph-mark's own rPr) and convertRunsToDeletedWithID
// (<w:t> → <w:delText xml:space="preserve"> conversion, <w:del> wrapping
// with id/author/date) — reimplemented here over internal/xmladapter nodes
// instead of string splicing. Teacher's paragraph.go writeRunTextWithControls
// grounds the whitespace-preserving-attribute rule.
package serialize

import (
	"strconv"
	"time"
	"unicode"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Options configures a serialization pass. NextRevisionID is called once per
// allocated <w:ins>/<w:del>/<w:rPrChange> identifier; callers typically wire
// it to a per-run Context counter rather than a package global.
type Options struct {
	Author         string
	Date           time.Time
	NextRevisionID func() int
}

// Paragraph emits a single <w:p> for rm, applying Options' revision/author/
// date policy to any deletion, insertion, or property-change entries.
func Paragraph(rm *model.RunModel, opts Options) *xmladapter.Node {
	p := xmladapter.NewElement("p")
	p.Space = "w"
	if rm.ParagraphProperties != nil {
		p.Children = append(p.Children, rm.ParagraphProperties.Clone())
	}

	var containerStack []*xmladapter.Node
	var current *xmladapter.Node = p

	for _, e := range rm.Entries {
		switch e.Kind {
		case model.RunContainerStart:
			open := e.NodeXML.Clone()
			current.Children = append(current.Children, open)
			containerStack = append(containerStack, current)
			current = open

		case model.RunContainerEnd:
			if len(containerStack) > 0 {
				current = containerStack[len(containerStack)-1]
				containerStack = containerStack[:len(containerStack)-1]
			}

		case model.RunDeletion:
			current.Children = append(current.Children, deletionElement(e, opts))

		case model.RunInsertion:
			current.Children = append(current.Children, insertionElement(e, opts))

		case model.RunText:
			current.Children = append(current.Children, textRunElement(e, opts))

		case model.RunBookmark, model.RunField:
			if e.NodeXML != nil {
				current.Children = append(current.Children, e.NodeXML.Clone())
			}
		}
	}

	return p
}

// Serialize emits Paragraph(rm, opts) as WML bytes.
func Serialize(rm *model.RunModel, opts Options) string {
	return xmladapter.Serialize(Paragraph(rm, opts))
}

func dateString(opts Options) string {
	d := opts.Date
	if d.IsZero() {
		d = time.Now()
	}
	return d.UTC().Format(time.RFC3339)
}

func deletionElement(e model.RunEntry, opts Options) *xmladapter.Node {
	del := xmladapter.NewElement("del")
	del.Space = "w"
	author := e.Author
	if author == "" {
		author = opts.Author
	}
	del.SetAttr("w", "id", strconv.Itoa(opts.NextRevisionID()))
	del.SetAttr("w", "author", author)
	del.SetAttr("w", "date", dateString(opts))

	r := xmladapter.NewElement("r")
	r.Space = "w"
	if e.RunPropertiesXML != nil {
		r.Children = append(r.Children, e.RunPropertiesXML.Clone())
	}
	r.Children = append(r.Children, delTextElement(e.Text))
	del.Children = append(del.Children, r)
	return del
}

func insertionElement(e model.RunEntry, opts Options) *xmladapter.Node {
	ins := xmladapter.NewElement("ins")
	ins.Space = "w"
	author := e.Author
	if author == "" {
		author = opts.Author
	}
	ins.SetAttr("w", "id", strconv.Itoa(opts.NextRevisionID()))
	ins.SetAttr("w", "author", author)
	ins.SetAttr("w", "date", dateString(opts))

	r := xmladapter.NewElement("r")
	r.Space = "w"
	if e.RunPropertiesXML != nil {
		r.Children = append(r.Children, e.RunPropertiesXML.Clone())
	}
	r.Children = append(r.Children, textElement(e.Text))
	ins.Children = append(ins.Children, r)
	return ins
}

func textRunElement(e model.RunEntry, opts Options) *xmladapter.Node {
	r := xmladapter.NewElement("r")
	r.Space = "w"
	rPr := e.RunPropertiesXML
	if e.PropertyChangeXML != nil {
		rPr = withPropertyChange(rPr, e.PropertyChangeXML, opts)
	}
	if rPr != nil {
		r.Children = append(r.Children, rPr.Clone())
	}
	r.Children = append(r.Children, textElement(e.Text))
	return r
}

// withPropertyChange clones current (or creates a bare rPr) and nests a
// <w:rPrChange> carrying the pre-edit properties snapshot, per spec.md §4.5.
func withPropertyChange(current, original *xmladapter.Node, opts Options) *xmladapter.Node {
	var rPr *xmladapter.Node
	if current != nil {
		rPr = current.Clone()
	} else {
		rPr = xmladapter.NewElement("rPr")
	}
	rPr.Local = "rPr"
	rPr.Space = "w"

	change := xmladapter.NewElement("rPrChange")
	change.Space = "w"
	change.SetAttr("w", "id", strconv.Itoa(opts.NextRevisionID()))
	change.SetAttr("w", "author", opts.Author)
	change.SetAttr("w", "date", dateString(opts))
	if original != nil {
		snapshot := original.Clone()
		snapshot.Local = "rPr"
		snapshot.Space = "w"
		change.Children = append(change.Children, snapshot)
	} else {
		change.Children = append(change.Children, xmladapter.NewElement("rPr"))
	}
	rPr.Children = append(rPr.Children, change)
	return rPr
}

// textElement builds a <w:t>, setting xml:space="preserve" when the text
// begins or ends with whitespace, per spec.md §4.5.
func textElement(text string) *xmladapter.Node {
	t := xmladapter.NewElement("t")
	t.Space = "w"
	if needsSpacePreserve(text) {
		t.SetAttr("xml", "space", "preserve")
	}
	t.Children = append(t.Children, xmladapter.NewText(text))
	return t
}

func delTextElement(text string) *xmladapter.Node {
	t := xmladapter.NewElement("delText")
	t.Space = "w"
	if needsSpacePreserve(text) {
		t.SetAttr("xml", "space", "preserve")
	}
	t.Children = append(t.Children, xmladapter.NewText(text))
	return t
}

func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return unicode.IsSpace(runes[0]) || unicode.IsSpace(runes[len(runes)-1])
}

