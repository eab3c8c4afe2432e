package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const commentsSampleDoc = `<w:body>
<w:p><w:r><w:t>Please review this clause carefully.</w:t></w:r></w:p>
<w:p><w:r><w:t>A second paragraph with no comments.</w:t></w:r></w:p>
</w:body>`

func fixedClock() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestInjectCommentsIntoDocumentFragmentAppliesAndIsolatesFailures(t *testing.T) {
	ctx := NewContext("Reviewer")
	ctx.Clock = fixedClock

	requests := []CommentRequest{
		{ParagraphIndex: 0, TextToFind: "this clause", CommentContent: "Tighten the language here."},
		{ParagraphIndex: 1, TextToFind: "not present anywhere", CommentContent: "Will not apply."},
	}

	result, err := InjectCommentsIntoDocumentFragment(ctx, commentsSampleDoc, requests, CommentOptions{})
	require.NoError(t, err)
	require.Len(t, result.CommentsApplied, 2)
	require.True(t, result.CommentsApplied[0].OK)
	require.False(t, result.CommentsApplied[1].OK)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.WML, "commentRangeStart")
	require.Contains(t, result.CommentsXML, "w:comment")
}

func TestInjectCommentsIntoDocumentFragmentSeedsIDPastExisting(t *testing.T) {
	ctx := NewContext("Reviewer")
	ctx.Clock = fixedClock

	existing := `<w:comments><w:comment w:id="0" w:author="X" w:date="2026-01-01T00:00:00Z"></w:comment></w:comments>`

	result, err := InjectCommentsIntoDocumentFragment(ctx, commentsSampleDoc, []CommentRequest{
		{ParagraphIndex: 0, TextToFind: "this clause", CommentContent: "New comment."},
	}, CommentOptions{ExistingCommentsXML: existing})

	require.NoError(t, err)
	require.Len(t, result.CommentsApplied, 1)
	require.True(t, result.CommentsApplied[0].OK)
	require.Equal(t, 1, result.CommentsApplied[0].ID)
}

func TestInjectCommentsIntoDocumentFragmentMalformedXML(t *testing.T) {
	ctx := NewContext("Reviewer")

	_, err := InjectCommentsIntoDocumentFragment(ctx, "<w:p><w:r>", nil, CommentOptions{})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ErrCodeMalformedInputXML, rerr.Code)
}
