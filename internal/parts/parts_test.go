package parts

import (
	"testing"

	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/require"
)

func TestEnsureRelationshipAllocatesAboveExisting(t *testing.T) {
	rels, err := xmladapter.Parse(`<Relationships><Relationship Id="rId3" Type="x" Target="a.xml"/></Relationships>`)
	require.NoError(t, err)
	d := EnsureRelationship(rels, "comments.xml", commentsRelType)
	require.Len(t, d, 1)
	added := rels.ChildrenOf("Relationship")[1]
	id, _ := added.Attr("Id")
	require.Equal(t, "rId4", id)
}

func TestEnsureRelationshipIdempotent(t *testing.T) {
	rels, err := xmladapter.Parse(`<Relationships><Relationship Id="rId1" Type="x" Target="comments.xml"/></Relationships>`)
	require.NoError(t, err)
	d := EnsureRelationship(rels, "comments.xml", commentsRelType)
	require.Nil(t, d)
	require.Len(t, rels.ChildrenOf("Relationship"), 1)
}

func TestMergeAddsNumberingPartEntries(t *testing.T) {
	ct, err := xmladapter.Parse(`<Types></Types>`)
	require.NoError(t, err)
	rels, err := xmladapter.Parse(`<Relationships></Relationships>`)
	require.NoError(t, err)
	numbering, err := xmladapter.Parse(`<w:numbering></w:numbering>`)
	require.NoError(t, err)

	merged, directives, err := Merge(PartSet{ContentTypes: ct, Relationships: rels}, PartSet{Numbering: numbering})
	require.NoError(t, err)
	require.NotEmpty(t, directives)
	require.NotNil(t, merged.Numbering)
	require.Len(t, ct.ChildrenOf("Override"), 1)
	require.Len(t, rels.ChildrenOf("Relationship"), 1)
}
