package reconcile

import (
	"github.com/falcomza/reconcile/internal/resolve"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// ResolveTargetParagraph resolves a target paragraph within docWML by
// reference, strict text, or fuzzy text, per spec.md §6 contract 5 and
// §4.11's resolution cascade.
func ResolveTargetParagraph(ctx *Context, docWML string, ref TargetRef) (ResolveResult, error) {
	doc, err := xmladapter.Parse(docWML)
	if err != nil {
		return ResolveResult{}, NewMalformedInputXMLError(err)
	}

	res, err := resolve.Resolve(doc, resolve.Ref{
		TargetRef:  ref.TargetRef,
		TargetText: ref.TargetText,
		Snapshot:   ref.Snapshot,
	})
	if err != nil {
		return ResolveResult{}, NewTargetNotFoundError(ref.TargetRef, ref.TargetText)
	}

	return ResolveResult{
		ParagraphNode:  res.ParagraphNode,
		ParagraphIndex: res.ParagraphIndex,
		ResolvedBy:     res.ResolvedBy,
		DriftDetected:  res.DriftDetected,
	}, nil
}
