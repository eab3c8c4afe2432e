package comments

import (
	"time"

	"github.com/falcomza/reconcile/internal/xmladapter"
)

// Outcome is one request's per-change result, isolating failures per spec.md
// §7's propagation policy (one bad request never aborts the batch).
type Outcome struct {
	Request Request
	ID      int
	OK      bool
	Reason  string
}

// InjectDocument processes multiple requests against a document fragment
// containing one or more <w:p> paragraphs, building comment elements for the
// comments part alongside the range markers. existingComments seeds the id
// sequence (one past its highest id) and the set of ids already in use.
// Requests carry no id of their own; each successful request takes the next
// id in sequence. The whole-call ErrDuplicateCommentID abort (per spec.md
// §7, part-level errors abort the call) is returned only when the next id is
// already in use. Because the sequence starts past the highest existing id,
// that check does not fire for ids allocated here. A paragraph index out of
// range, or anchor text that is not found, is an isolated per-change
// failure.
func InjectDocument(doc *xmladapter.Node, requests []Request, existingComments *xmladapter.Node, clock func() time.Time) ([]Outcome, *xmladapter.Node, error) {
	paragraphs := doc.ChildrenOf("p")

	nextID := NextCommentID(existingComments)
	seen := map[int]bool{}
	for _, c := range ParseComments(existingComments) {
		seen[c.ID] = true
	}

	commentsPart := existingComments
	if commentsPart == nil {
		commentsPart = newCommentsPart()
	}

	var outcomes []Outcome
	for _, req := range requests {
		if req.ParagraphIndex < 0 || req.ParagraphIndex >= len(paragraphs) {
			outcomes = append(outcomes, Outcome{Request: req, OK: false, Reason: "paragraph index out of range"})
			continue
		}
		id := nextID
		if seen[id] {
			return outcomes, commentsPart, &ErrDuplicateCommentID{ID: id}
		}
		p := paragraphs[req.ParagraphIndex]
		if !InjectParagraph(p, req, id) {
			outcomes = append(outcomes, Outcome{Request: req, OK: false, Reason: "anchor text not found"})
			continue
		}
		entry := CommentEntry(id, req.Author, req.CommentContent, clock)
		commentsPart.Children = append(commentsPart.Children, entry)
		seen[id] = true
		nextID++
		outcomes = append(outcomes, Outcome{Request: req, ID: id, OK: true})
	}

	return outcomes, commentsPart, nil
}

func newCommentsPart() *xmladapter.Node {
	root := xmladapter.NewElement("comments")
	root.Space = "w"
	return root
}
