package ingest

import (
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseParagraph(t *testing.T, frag string) *xmladapter.Node {
	t.Helper()
	n, err := xmladapter.Parse(frag)
	require.NoError(t, err)
	return n
}

func TestIngestPlainRun(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:r><w:t>Hello world</w:t></w:r></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.AcceptedText)
	require.Len(t, res.RunModel.Entries, 1)
	assert.Equal(t, model.RunText, res.RunModel.Entries[0].Kind)
}

func TestIngestTabAndBreak(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc", res.AcceptedText)
}

func TestIngestExistingDeletionExcludedFromAcceptedText(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:r><w:t>keep </w:t></w:r><w:del w:author="jdoe"><w:r><w:delText>gone</w:delText></w:r></w:del></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "keep ", res.AcceptedText)
	assert.Equal(t, "gone", res.RunModel.DeletedText())
}

func TestIngestExistingInsertionIncludedInAcceptedText(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:r><w:t>keep </w:t></w:r><w:ins w:author="jdoe"><w:r><w:t>added</w:t></w:r></w:ins></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "keep added", res.AcceptedText)
}

func TestIngestNumberingContext(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="5"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	require.NotNil(t, res.NumberingContext)
	assert.Equal(t, 1, res.NumberingContext.ILvl)
	assert.Equal(t, 5, res.NumberingContext.NumID)
}

func TestIngestHyperlinkBracketedAsContainer(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:hyperlink r:id="rId1"><w:r><w:t>link text</w:t></w:r></w:hyperlink></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "link text", res.AcceptedText)
	require.True(t, len(res.RunModel.Entries) >= 3)
	assert.Equal(t, model.RunContainerStart, res.RunModel.Entries[0].Kind)
	assert.Equal(t, model.RunContainerEnd, res.RunModel.Entries[len(res.RunModel.Entries)-1].Kind)
}

func TestIngestBookmarksAreZeroWidth(t *testing.T) {
	p := parseParagraph(t, `<w:p><w:bookmarkStart w:id="0" w:name="x"/><w:r><w:t>text</w:t></w:r><w:bookmarkEnd w:id="0"/></w:p>`)
	res, err := Ingest(p)
	require.NoError(t, err)
	assert.Equal(t, "text", res.AcceptedText)
}

func TestIngestRejectsNonParagraphRoot(t *testing.T) {
	n := xmladapter.NewElement("tbl")
	_, err := Ingest(n)
	assert.Error(t, err)
}
