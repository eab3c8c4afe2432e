package tablegrid

import (
	"strconv"

	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// GenerateOptions configures Markdown-table generation. Zero values produce
// the teacher's defaults: single borders, auto percent width.
type GenerateOptions struct {
	BorderSize  int // eighths of a point; 0 defaults to 4
	BorderColor string // hex, no '#'; "" defaults to "auto"
}

const tableWidthPercent = 5000 // w:tblW pct units: 5000 = 100%

// GenerateFromMarkdown builds a <w:tbl> from a parsed Markdown table, per
// spec.md §4.8: default borders, percent-based width, one grid column per
// header column, a header row when present, and bold header-cell run
// properties. Returns isValid=false when the table has zero rows and zero
// headers (the invalid-table-markdown condition of spec.md §7).
func GenerateFromMarkdown(md string, opts GenerateOptions) (*xmladapter.Node, bool) {
	t, ok := ParseMarkdownTable(md)
	if !ok {
		return nil, false
	}
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return nil, false
	}
	if opts.BorderSize == 0 {
		opts.BorderSize = 4
	}
	if opts.BorderColor == "" {
		opts.BorderColor = "auto"
	}

	cols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	tbl := xmladapter.NewElement("tbl")
	tbl.Space = "w"
	tbl.Children = append(tbl.Children, tblPr(opts))
	tbl.Children = append(tbl.Children, tblGrid(cols))

	if len(t.Header) > 0 {
		tbl.Children = append(tbl.Children, dataRow(t.Header, cols, true))
	}
	for _, row := range t.Rows {
		tbl.Children = append(tbl.Children, dataRow(row, cols, false))
	}
	return tbl, true
}

func tblPr(opts GenerateOptions) *xmladapter.Node {
	pr := xmladapter.NewElement("tblPr")
	pr.Space = "w"

	w := xmladapter.NewElement("tblW")
	w.Space = "w"
	w.SetAttr("w", "w", strconv.Itoa(tableWidthPercent))
	w.SetAttr("w", "type", "pct")

	borders := xmladapter.NewElement("tblBorders")
	borders.Space = "w"
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := xmladapter.NewElement(side)
		b.Space = "w"
		b.SetAttr("w", "val", "single")
		b.SetAttr("w", "sz", strconv.Itoa(opts.BorderSize))
		b.SetAttr("w", "color", opts.BorderColor)
		borders.Children = append(borders.Children, b)
	}

	pr.Children = append(pr.Children, w, borders)
	return pr
}

func tblGrid(cols int) *xmladapter.Node {
	grid := xmladapter.NewElement("tblGrid")
	grid.Space = "w"
	for i := 0; i < cols; i++ {
		gc := xmladapter.NewElement("gridCol")
		gc.Space = "w"
		grid.Children = append(grid.Children, gc)
	}
	return grid
}

func dataRow(cells []string, cols int, isHeader bool) *xmladapter.Node {
	tr := xmladapter.NewElement("tr")
	tr.Space = "w"
	for i := 0; i < cols; i++ {
		var text string
		if i < len(cells) {
			text = cells[i]
		}
		tr.Children = append(tr.Children, cellNode(text, isHeader))
	}
	return tr
}

func cellNode(text string, bold bool) *xmladapter.Node {
	tc := xmladapter.NewElement("tc")
	tc.Space = "w"
	tcPr := xmladapter.NewElement("tcPr")
	tcPr.Space = "w"
	tc.Children = append(tc.Children, tcPr)

	clean, hints := mdpre.Strip(text)
	p := xmladapter.NewElement("p")
	p.Space = "w"
	r := xmladapter.NewElement("r")
	r.Space = "w"

	flags := unionFlags(hints)
	if bold {
		flags |= model.FormatBold
	}
	if flags != 0 {
		r.Children = append(r.Children, rPrFor(flags))
	}

	t := xmladapter.NewElement("t")
	t.Space = "w"
	t.Children = append(t.Children, xmladapter.NewText(clean))
	r.Children = append(r.Children, t)
	p.Children = append(p.Children, r)
	tc.Children = append(tc.Children, p)
	return tc
}

func unionFlags(hints []model.FormatHint) model.FormatFlags {
	var flags model.FormatFlags
	for _, h := range hints {
		flags |= h.Flags
	}
	return flags
}

func rPrFor(flags model.FormatFlags) *xmladapter.Node {
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
