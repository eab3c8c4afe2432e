// Package tablegrid implements the Table Virtual Grid & Reconciler (spec.md
// §4.8): it ingests a WML table into a row/column grid honoring horizontal
// and vertical merges, generates a table from a Markdown table, and
// reconciles an ingested grid against a Markdown table into a minimal
// operation list.
//
// Grid-cell ingestion (rowSpan/colSpan/merge-origin/merge-continuation) is
// grounded on falcomza-docx-chart-updater/merge.go's
// mergeTableCellsHorizontal/mergeTableCellsVertical (the w:gridSpan/w:vMerge
// emission shapes), read in reverse here to ingest existing spans into a
// grid instead of injecting new ones. Table generation from Markdown is
// grounded on falcomza-go-docx/table.go's generateTableXML/generateDataRow/
// generateCell/generateTableBorders (default borders, percent width,
// header-row bold styling), rebuilt over internal/xmladapter instead of
// string concatenation.
package tablegrid

import (
	"strconv"
	"strings"

	"github.com/falcomza/reconcile/internal/ingest"
	"github.com/falcomza/reconcile/internal/mdpre"
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Ingest builds a Virtual Grid from a <w:tbl> node, per spec.md §4.8. Cells
// with a w:gridSpan widen in columns; w:vMerge restart/continue marks the
// vertical merge-origin/continuation relationship.
func Ingest(tbl *xmladapter.Node) (*model.Grid, error) {
	if tbl == nil || tbl.Local != "tbl" {
		return nil, errMalformed("fragment is not rooted at a table element")
	}
	rows := tbl.ChildrenOf("tr")
	g := &model.Grid{Rows: len(rows)}
	g.Cells = make([][]*model.GridCell, len(rows))

	// colOpen tracks, per column, the origin cell currently occupying a
	// vertical-merge run so continuation rows can point back to it.
	colOpen := map[int]*model.GridCell{}

	for r, tr := range rows {
		g.RowPropsXML = append(g.RowPropsXML, tr.Child("trPr"))
		col := 0
		var rowCells []*model.GridCell
		for _, tc := range tr.ChildrenOf("tc") {
			tcPr := tc.Child("tcPr")
			span := 1
			if tcPr != nil {
				if gs := tcPr.Child("gridSpan"); gs != nil {
					if v, ok := gs.Attr("val"); ok {
						if n, err := strconv.Atoi(v); err == nil && n > 0 {
							span = n
						}
					}
				}
			}

			vMergeVal, hasVMerge := "", false
			if tcPr != nil {
				if vm := tcPr.Child("vMerge"); vm != nil {
					hasVMerge = true
					vMergeVal, _ = vm.Attr("val")
				}
			}

			isContinuation := hasVMerge && vMergeVal != "restart"

			var cell *model.GridCell
			if isContinuation {
				origin := colOpen[col]
				cell = &model.GridCell{
					GridRow: r, GridCol: col,
					RowSpan: 0, ColSpan: span,
					IsMergeContinuation: true,
					CellPropertiesXML:   tcPr,
				}
				if origin != nil {
					cell.OriginRow, cell.OriginCol = origin.GridRow, origin.GridCol
					origin.RowSpan++
				}
				cell.Blocks = ingestCellBlocks(tc)
			} else {
				cell = &model.GridCell{
					GridRow: r, GridCol: col,
					RowSpan: 1, ColSpan: span,
					IsMergeOrigin:     true,
					CellPropertiesXML: tcPr,
					Blocks:            ingestCellBlocks(tc),
				}
				if hasVMerge && vMergeVal == "restart" {
					colOpen[col] = cell
				} else {
					delete(colOpen, col)
				}
			}

			for c := 0; c < span; c++ {
				rowCells = append(rowCells, cell)
			}
			col += span
		}
		g.Cells[r] = rowCells
		if len(rowCells) > g.Cols {
			g.Cols = len(rowCells)
		}
	}
	return g, nil
}

func ingestCellBlocks(tc *xmladapter.Node) []*model.RunModel {
	var blocks []*model.RunModel
	for _, p := range tc.ChildrenOf("p") {
		res, err := ingest.Ingest(p)
		if err != nil {
			continue
		}
		blocks = append(blocks, res.RunModel)
	}
	return blocks
}

// CellText returns a cell's logical text: the newline-joined Accepted Text
// of its inner paragraphs, per spec.md §4.8.
func CellText(cell *model.GridCell) string {
	var parts []string
	for _, b := range cell.Blocks {
		parts = append(parts, b.AcceptedText())
	}
	return strings.Join(parts, "\n")
}

type errMalformed string

func (e errMalformed) Error() string { return string(e) }
