package resolve

import (
	"strconv"

	"github.com/falcomza/reconcile/internal/xmladapter"
)

// ListBlock is the contiguous run of sibling list paragraphs sharing one
// numbering identifier, returned by WidenToListBlock per spec.md §4.11.
type ListBlock struct {
	Paragraphs   []*xmladapter.Node
	StartIndex   int
	NumID        int
	OriginalText string // combined original text, in block coordinates
}

// WidenToListBlock returns the contiguous block of sibling list paragraphs
// that share anchor's numbering identifier, when a multi-line list edit is
// proposed against a single list item. anchorIdx is the 0-based index of
// the anchor paragraph among paragraphs.
func WidenToListBlock(paragraphs []*xmladapter.Node, anchorIdx int) (*ListBlock, bool) {
	if anchorIdx < 0 || anchorIdx >= len(paragraphs) {
		return nil, false
	}
	numID, ok := numIDOf(paragraphs[anchorIdx])
	if !ok {
		return nil, false
	}

	start := anchorIdx
	for start > 0 {
		if id, ok := numIDOf(paragraphs[start-1]); ok && id == numID {
			start--
			continue
		}
		break
	}
	end := anchorIdx
	for end+1 < len(paragraphs) {
		if id, ok := numIDOf(paragraphs[end+1]); ok && id == numID {
			end++
			continue
		}
		break
	}

	block := paragraphs[start : end+1]
	var combined string
	for i, p := range block {
		if i > 0 {
			combined += "\n"
		}
		combined += p.Text()
	}
	return &ListBlock{Paragraphs: block, StartIndex: start, NumID: numID, OriginalText: combined}, true
}

func numIDOf(p *xmladapter.Node) (int, bool) {
	pPr := p.Child("pPr")
	if pPr == nil {
		return 0, false
	}
	numPr := pPr.Child("numPr")
	if numPr == nil {
		return 0, false
	}
	numID := numPr.Child("numId")
	if numID == nil {
		return 0, false
	}
	v, ok := numID.Attr("val")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return id, true
}
