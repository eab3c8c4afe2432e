package model

import "github.com/falcomza/reconcile/internal/xmladapter"

// GridCell is one cell of a Table Virtual Grid. A cell with ColSpan=C
// occupies C consecutive positions of its row, all holding the same
// *GridCell. A vertical merge origin counts its rows in RowSpan; each row
// below it that continues the merge holds its own continuation cell
// (RowSpan=0, OriginRow/OriginCol pointing back to the origin), repeated
// across that row's ColSpan positions.
type GridCell struct {
	GridRow, GridCol         int
	RowSpan, ColSpan         int
	Blocks                   []*RunModel
	IsMergeOrigin            bool
	IsMergeContinuation      bool
	OriginRow, OriginCol     int // valid when IsMergeContinuation
	CellPropertiesXML        *xmladapter.Node
}

// Grid is a rows×cols table of GridCells built by table ingestion.
type Grid struct {
	Rows, Cols int
	Cells      [][]*GridCell // [row][col]
	RowPropsXML []*xmladapter.Node
}

// CellAt returns the cell occupying (row, col), or nil if out of range.
func (g *Grid) CellAt(row, col int) *GridCell {
	if row < 0 || row >= g.Rows || col < 0 || col >= len(g.Cells[row]) {
		return nil
	}
	return g.Cells[row][col]
}

// TableOpKind tags a reconciliation operation produced by the Table
// Reconciler.
type TableOpKind int

const (
	TableRowInsert TableOpKind = iota
	TableRowDelete
	TableCellModify
)

// TableOp is one minimal reconciliation operation.
type TableOp struct {
	Kind         TableOpKind
	Row, Col     int
	OldText      string
	NewText      string
	HeaderRow    []string // for TableRowInsert
}
