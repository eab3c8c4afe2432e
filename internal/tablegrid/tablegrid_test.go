package tablegrid

import (
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/require"
)

const sampleTable = `<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Apple</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>1</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Berry</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>2</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`

func TestIngestTwoByTwo(t *testing.T) {
	n, err := xmladapter.Parse(sampleTable)
	require.NoError(t, err)
	g, err := Ingest(n)
	require.NoError(t, err)
	require.Equal(t, 2, g.Rows)
	require.Equal(t, 2, g.Cols)
	require.Equal(t, "Apple", CellText(g.CellAt(0, 0)))
	require.Equal(t, "2", CellText(g.CellAt(1, 1)))
}

func TestReconcileMinimalCellModify(t *testing.T) {
	n, err := xmladapter.Parse(sampleTable)
	require.NoError(t, err)
	g, err := Ingest(n)
	require.NoError(t, err)

	md := "| Apple | 3 |\n| Citrus | 4 |"
	mt, ok := ParseMarkdownTable(md)
	require.True(t, ok)

	ops := Reconcile(g, mt)
	var modifies []model.TableOp
	for _, op := range ops {
		if op.Kind == model.TableCellModify {
			modifies = append(modifies, op)
		}
	}
	require.Len(t, modifies, 3)
}

func TestGenerateFromMarkdownHeaderBold(t *testing.T) {
	tbl, ok := GenerateFromMarkdown("| A | B |\n| - | - |\n| 1 | 2 |", GenerateOptions{})
	require.True(t, ok)
	require.NotNil(t, tbl)
	rows := tbl.ChildrenOf("tr")
	require.Len(t, rows, 2)
	header := rows[0].ChildrenOf("tc")
	p := header[0].Child("p")
	r := p.Child("r")
	require.NotNil(t, r.Child("rPr"))
}

func TestGenerateFromMarkdownInvalid(t *testing.T) {
	_, ok := GenerateFromMarkdown("not a table", GenerateOptions{})
	require.False(t, ok)
}
