package reconcile

import (
	"testing"

	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/require"
)

func TestMergeSiblingPartsAddsNumberingPartEntries(t *testing.T) {
	ct, err := xmladapter.Parse(`<Types></Types>`)
	require.NoError(t, err)
	rels, err := xmladapter.Parse(`<Relationships></Relationships>`)
	require.NoError(t, err)
	numbering, err := xmladapter.Parse(`<w:numbering></w:numbering>`)
	require.NoError(t, err)

	dest := PartSet{ContentTypes: ct, Relationships: rels}
	incoming := PartSet{Numbering: numbering}

	merged, directives, err := MergeSiblingParts(dest, incoming)
	require.NoError(t, err)
	require.NotEmpty(t, directives)
	require.NotNil(t, merged.Numbering)
	require.Len(t, merged.ContentTypes.ChildrenOf("Override"), 1)
	require.Len(t, merged.Relationships.ChildrenOf("Relationship"), 1)
}

func TestMergeSiblingPartsNoOptionalPartsIsNoOp(t *testing.T) {
	ct, err := xmladapter.Parse(`<Types></Types>`)
	require.NoError(t, err)
	rels, err := xmladapter.Parse(`<Relationships></Relationships>`)
	require.NoError(t, err)

	dest := PartSet{ContentTypes: ct, Relationships: rels}

	_, directives, err := MergeSiblingParts(dest, PartSet{})
	require.NoError(t, err)
	require.Empty(t, directives)
}

// Two numbering parts each defining numId 0 must not collide: the destination
// keeps its own numId 0 untouched, and the incoming definition is remapped to
// a free id, with the remap reported so a caller can rewrite any WML that
// still references the incoming part's original numId.
func TestMergeSiblingPartsRemapsCollidingNumberingIDs(t *testing.T) {
	dest, err := xmladapter.Parse(`<w:numbering>
		<w:abstractNum w:abstractNumId="0">
			<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val=""/></w:lvl>
		</w:abstractNum>
		<w:num w:numId="0"><w:abstractNumId w:val="0"/></w:num>
	</w:numbering>`)
	require.NoError(t, err)
	incoming, err := xmladapter.Parse(`<w:numbering>
		<w:abstractNum w:abstractNumId="0">
			<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
		</w:abstractNum>
		<w:num w:numId="0"><w:abstractNumId w:val="0"/></w:num>
	</w:numbering>`)
	require.NoError(t, err)

	merged, directives, err := MergeSiblingParts(PartSet{Numbering: dest}, PartSet{Numbering: incoming})
	require.NoError(t, err)
	require.NotEmpty(t, directives)

	var remap map[int]int
	for _, d := range directives {
		if d.NumberingRemap != nil {
			remap = d.NumberingRemap
		}
	}
	require.NotNil(t, remap)
	newID, ok := remap[0]
	require.True(t, ok)
	require.NotEqual(t, 0, newID, "incoming numId 0 must be remapped away from dest's own numId 0")

	numIDs := map[string]bool{}
	for _, n := range merged.Numbering.ChildrenOf("num") {
		v, _ := n.Attr("numId")
		numIDs[v] = true
	}
	require.True(t, numIDs["0"], "dest's original num entry must survive untouched")
	require.Len(t, numIDs, 2, "merged part must carry both dest's and the remapped incoming num entry")
}
