package tablegrid

import (
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/patch"
	"github.com/falcomza/reconcile/internal/serialize"
	"github.com/falcomza/reconcile/internal/worddiff"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Reconcile compares an ingested grid against a parsed Markdown table and
// produces the minimal operation list of spec.md §4.8: iterates row×column,
// skipping merge-continuation cells, emitting row_insert/row_delete when row
// counts differ and cell_modify for every cell whose text changed.
func Reconcile(g *model.Grid, t *MarkdownTable) []model.TableOp {
	var ops []model.TableOp

	newRows := len(t.Rows)
	if len(t.Header) > 0 {
		newRows++
	}
	oldRows := g.Rows

	rowLimit := oldRows
	if newRows < rowLimit {
		rowLimit = newRows
	}

	for r := 0; r < rowLimit; r++ {
		newRowCells := rowCellsFor(t, r)
		oldRowCells := g.Cells[r]
		cols := len(newRowCells)
		if len(oldRowCells) > cols {
			cols = len(oldRowCells)
		}
		seen := map[*model.GridCell]bool{}
		for c := 0; c < cols; c++ {
			var oldCell *model.GridCell
			if c < len(oldRowCells) {
				oldCell = oldRowCells[c]
			}
			if oldCell == nil || oldCell.IsMergeContinuation || seen[oldCell] {
				continue
			}
			seen[oldCell] = true

			var newText string
			if c < len(newRowCells) {
				newText = newRowCells[c]
			}
			oldText := CellText(oldCell)
			if oldText != newText {
				ops = append(ops, model.TableOp{
					Kind: model.TableCellModify,
					Row: r, Col: c,
					OldText: oldText, NewText: newText,
				})
			}
		}
	}

	for r := rowLimit; r < newRows; r++ {
		ops = append(ops, model.TableOp{Kind: model.TableRowInsert, Row: r, HeaderRow: rowCellsFor(t, r)})
	}
	for r := newRows; r < oldRows; r++ {
		ops = append(ops, model.TableOp{Kind: model.TableRowDelete, Row: r})
	}

	return ops
}

func rowCellsFor(t *MarkdownTable, r int) []string {
	if len(t.Header) > 0 {
		if r == 0 {
			return t.Header
		}
		return t.Rows[r-1]
	}
	return t.Rows[r]
}

// ApplyCellModify runs the text-path pipeline (word diff → patch →
// serialize) on a cell's first block using its new text, per spec.md
// §4.8's "cell_modify runs the text-path pipeline on the cell's first
// block" rule. Returns the reconciled cell paragraph WML.
func ApplyCellModify(cell *model.GridCell, newText, author string, nextRevisionID func() int) (*xmladapter.Node, error) {
	var rm *model.RunModel
	if len(cell.Blocks) > 0 {
		rm = cell.Blocks[0]
	} else {
		rm = &model.RunModel{}
	}
	oldText := rm.AcceptedText()
	ops := worddiff.Diff(oldText, newText)
	patched, _ := patch.Patch(rm, ops, nil, author)
	return serialize.Paragraph(patched, serialize.Options{Author: author, NextRevisionID: nextRevisionID}), nil
}
