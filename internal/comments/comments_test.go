package comments

import (
	"testing"
	"time"

	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestInjectDocumentTwoComments(t *testing.T) {
	doc, err := xmladapter.Parse(`
<w:p><w:r><w:t>Paragraph with target_one and target_two.</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph target_three.</w:t></w:r></w:p>`)
	require.NoError(t, err)
	// doc has multiple top-level siblings: Parse returns the synthetic root.
	require.True(t, len(doc.Children) >= 2 || doc.Local == "adapter-root")

	requests := []Request{
		{ParagraphIndex: 0, TextToFind: "target_one", CommentContent: "First", Author: "Reviewer"},
		{ParagraphIndex: 1, TextToFind: "target_three", CommentContent: "Second", Author: "Reviewer"},
	}
	outcomes, commentsPart, err := InjectDocument(doc, requests, nil, fixedClock)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].OK)
	require.True(t, outcomes[1].OK)
	require.NotEqual(t, outcomes[0].ID, outcomes[1].ID)

	entries := commentsPart.ChildrenOf("comment")
	require.Len(t, entries, 2)
	ids := map[string]bool{}
	for _, e := range entries {
		id, _ := e.Attr("id")
		ids[id] = true
		author, _ := e.Attr("author")
		require.Equal(t, "Reviewer", author)
	}
	require.Len(t, ids, 2)
}

func TestInjectDocumentExistingIDDoesNotCollide(t *testing.T) {
	doc, err := xmladapter.Parse(`<w:p><w:r><w:t>hello world</w:t></w:r></w:p>`)
	require.NoError(t, err)

	existing, err := xmladapter.Parse(`<w:comments><w:comment w:id="1" w:author="A"/></w:comments>`)
	require.NoError(t, err)

	requests := []Request{{ParagraphIndex: 0, TextToFind: "hello", CommentContent: "x", Author: "A"}}
	// The existing part already uses id 1.
	_, _, err = InjectDocument(doc, requests, existing, fixedClock)
	// NextCommentID computes max+1 = 2, so the new comment's id does not
	// collide with id 1 and the duplicate-id abort does not fire.
	require.NoError(t, err)
}

func TestInjectParagraphNotFound(t *testing.T) {
	p, err := xmladapter.Parse(`<w:p><w:r><w:t>no match here</w:t></w:r></w:p>`)
	require.NoError(t, err)
	ok := InjectParagraph(p, Request{TextToFind: "missing"}, 1)
	require.False(t, ok)
}
