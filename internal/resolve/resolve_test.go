package resolve

import (
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<w:body>
<w:p><w:r><w:t>First paragraph text</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph about apples</w:t></w:r></w:p>
<w:p><w:r><w:t>Third paragraph about oranges</w:t></w:r></w:p>
</w:body>`

func TestResolveByReference(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	res, err := Resolve(doc, Ref{TargetRef: "P2"})
	require.NoError(t, err)
	require.Equal(t, 1, res.ParagraphIndex)
	require.Equal(t, model.ResolvedByReference, res.ResolvedBy)
	require.False(t, res.DriftDetected)
}

func TestResolveByStrictText(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	res, err := Resolve(doc, Ref{TargetText: "Third paragraph about oranges"})
	require.NoError(t, err)
	require.Equal(t, 2, res.ParagraphIndex)
	require.Equal(t, model.ResolvedByStrictText, res.ResolvedBy)
}

func TestResolveByFuzzyTextWordOverlap(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	res, err := Resolve(doc, Ref{TargetText: "Second paragraph about pears"})
	require.NoError(t, err)
	require.Equal(t, 1, res.ParagraphIndex)
	require.Equal(t, model.ResolvedByFuzzyText, res.ResolvedBy)
}

func TestResolveNotFound(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	_, err = Resolve(doc, Ref{TargetText: "nothing in common at all here"})
	require.Error(t, err)
	var notFound *ErrTargetNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestResolveDriftDetectedButNotRejected(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	res, err := Resolve(doc, Ref{TargetRef: "P1", TargetText: "stale expected text"})
	require.NoError(t, err)
	require.Equal(t, 0, res.ParagraphIndex)
	require.True(t, res.DriftDetected)
}

func TestResolveSnapshotCorrectedAfterDrift(t *testing.T) {
	doc, err := xmladapter.Parse(sampleDoc)
	require.NoError(t, err)

	snap := &model.TargetSnapshot{Paragraphs: map[int]model.SnapshotEntry{
		1: {Text: "Second paragraph about apples", NormalizedText: "Second paragraph about apples"},
	}}

	res, err := Resolve(doc, Ref{
		TargetRef:  "P1",
		TargetText: "Second paragraph about apples",
		Snapshot:   snap,
	})
	require.NoError(t, err)
	require.Equal(t, model.ResolvedByStrictTextAfterRefDrift, res.ResolvedBy)
	require.Equal(t, 1, res.ParagraphIndex)
	require.True(t, res.DriftDetected)
}

const sampleListDoc = `<w:body>
<w:p><w:pPr><w:numPr><w:numId w:val="5"/></w:numPr></w:pPr><w:r><w:t>Item one</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:numId w:val="5"/></w:numPr></w:pPr><w:r><w:t>Item two</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:numId w:val="5"/></w:numPr></w:pPr><w:r><w:t>Item three</w:t></w:r></w:p>
<w:p><w:r><w:t>Not a list paragraph</w:t></w:r></w:p>
</w:body>`

func TestWidenToListBlock(t *testing.T) {
	doc, err := xmladapter.Parse(sampleListDoc)
	require.NoError(t, err)
	paragraphs := doc.ChildrenOf("p")

	block, ok := WidenToListBlock(paragraphs, 1)
	require.True(t, ok)
	require.Equal(t, 0, block.StartIndex)
	require.Equal(t, 5, block.NumID)
	require.Len(t, block.Paragraphs, 3)
	require.Equal(t, "Item one\nItem two\nItem three", block.OriginalText)
}

func TestWidenToListBlockNotAList(t *testing.T) {
	doc, err := xmladapter.Parse(sampleListDoc)
	require.NoError(t, err)
	paragraphs := doc.ChildrenOf("p")

	_, ok := WidenToListBlock(paragraphs, 3)
	require.False(t, ok)
}

func TestPlanInsertionOnlyAppendsNewLines(t *testing.T) {
	plan, ok := PlanInsertionOnly("Item one\nItem two", "Item one\nItem two\nItem three\nItem four")
	require.True(t, ok)
	require.Equal(t, []string{"Item three", "Item four"}, plan.NewLines)
}

func TestPlanInsertionOnlyRejectsNonPrefix(t *testing.T) {
	_, ok := PlanInsertionOnly("Item one\nItem two", "Completely different text")
	require.False(t, ok)
}

func TestPlanInsertionOnlyRejectsNoNewContent(t *testing.T) {
	_, ok := PlanInsertionOnly("Item one\nItem two", "Item one\nItem two")
	require.False(t, ok)
}
