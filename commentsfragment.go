package reconcile

import (
	"strconv"

	"github.com/falcomza/reconcile/internal/comments"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// InjectCommentsIntoDocumentFragment injects comment-range markers and
// comments-part entries for each request, per spec.md §6 contract 4.
// Per-request failures (anchor text not found) are isolated in the result;
// a duplicate comment id aborts the whole call, per spec.md §7.
func InjectCommentsIntoDocumentFragment(ctx *Context, docWML string, requests []CommentRequest, opts CommentOptions) (CommentResult, error) {
	doc, err := xmladapter.Parse(docWML)
	if err != nil {
		return CommentResult{}, NewMalformedInputXMLError(err)
	}

	var existing *xmladapter.Node
	if opts.ExistingCommentsXML != "" {
		existing, err = xmladapter.Parse(opts.ExistingCommentsXML)
		if err != nil {
			return CommentResult{}, NewMalformedInputXMLError(err)
		}
	}

	internalRequests := make([]comments.Request, len(requests))
	for i, r := range requests {
		author := r.Author
		if author == "" {
			author = ctx.Author
		}
		internalRequests[i] = comments.Request{
			ParagraphIndex: r.ParagraphIndex,
			TextToFind:     r.TextToFind,
			CommentContent: r.CommentContent,
			Author:         author,
		}
	}

	outcomes, commentsPart, err := comments.InjectDocument(doc, internalRequests, existing, ctx.Clock)
	if err != nil {
		if dup, ok := err.(*comments.ErrDuplicateCommentID); ok {
			return CommentResult{}, NewDuplicateCommentIDError(strconv.Itoa(dup.ID))
		}
		return CommentResult{}, err
	}

	result := CommentResult{
		WML:         xmladapter.Serialize(doc),
		CommentsXML: xmladapter.Serialize(commentsPart),
	}
	for _, o := range outcomes {
		co := CommentOutcome{
			Request: requests[indexOfRequest(requests, o.Request)],
			ID:      o.ID,
			OK:      o.OK,
			Reason:  o.Reason,
		}
		result.CommentsApplied = append(result.CommentsApplied, co)
		if !o.OK {
			result.Warnings = append(result.Warnings, o.Reason)
		}
	}
	return result, nil
}

func indexOfRequest(requests []CommentRequest, r comments.Request) int {
	for i, req := range requests {
		if req.ParagraphIndex == r.ParagraphIndex && req.TextToFind == r.TextToFind && req.CommentContent == r.CommentContent {
			return i
		}
	}
	return 0
}
