// Package parts generalizes the post-mutation merge rules for the sibling
// XML parts a reconciliation call may touch: content-types overrides,
// document relationships, and the optional numbering/comments parts
// themselves — spec.md §6 contract 7 (mergeSiblingParts) and §4.9's
// part-merge directives.
//
// Grounded on falcomza-docx-chart-updater/footnote.go's
// addNoteRelationship/addNoteContentType (scan word/_rels/document.xml.rels
// and [Content_Types].xml, insert before the closing tag, allocate an id
// strictly greater than all existing numeric ids), generalized here from
// "footnotes/endnotes" to any sibling part and rebuilt over
// internal/xmladapter instead of string-insert-before-closing-tag.
package parts

import (
	"strconv"
	"strings"

	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// PartSet is the collection of sibling parts a merge call may read and
// write, per spec.md §6 contract 7.
type PartSet struct {
	ContentTypes  *xmladapter.Node // root <Types>
	Relationships *xmladapter.Node // root <Relationships>
	Numbering     *xmladapter.Node // root <w:numbering>, optional
	Comments      *xmladapter.Node // root <w:comments>, optional
}

// DirectiveKind tags one part-merge action taken by Merge.
type DirectiveKind int

const (
	DirectiveContentTypeOverrideAdded DirectiveKind = iota
	DirectiveRelationshipAdded
	DirectiveNumberingMerged
	DirectiveCommentsMerged
)

// Directive records one action Merge performed, for caller diagnostics.
type Directive struct {
	Kind   DirectiveKind
	Detail string
	// NumberingRemap carries the incoming-numId -> destination-numId table
	// produced by a DirectiveNumberingMerged action, so a caller holding WML
	// that references the incoming part's numIds can rewrite it via
	// numbering.RemapPayload before splicing it into the destination
	// document. Nil for every other directive kind.
	NumberingRemap map[int]int
}

const (
	numberingContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	commentsContentType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
	numberingRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	commentsRelType      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
)

// EnsureContentTypeOverride adds a /word/<partName> content-type override to
// ct if not already present, per spec.md §4.9's "ensure a content-type
// override for the comments part" directive, generalized to any part.
func EnsureContentTypeOverride(ct *xmladapter.Node, partName, contentType string) []Directive {
	target := "/word/" + partName
	for _, o := range ct.ChildrenOf("Override") {
		if v, _ := o.Attr("PartName"); v == target {
			return nil
		}
	}
	o := xmladapter.NewElement("Override")
	o.SetAttr("", "PartName", target)
	o.SetAttr("", "ContentType", contentType)
	ct.Children = append(ct.Children, o)
	return []Directive{{Kind: DirectiveContentTypeOverrideAdded, Detail: target}}
}

// EnsureRelationship adds a relationship of relType targeting filename to
// rels if one doesn't already exist, allocating an id strictly greater than
// all existing numeric ids, per spec.md §4.9.
func EnsureRelationship(rels *xmladapter.Node, filename, relType string) []Directive {
	for _, r := range rels.ChildrenOf("Relationship") {
		if v, _ := r.Attr("Target"); v == filename {
			return nil
		}
	}
	id := nextRelID(rels)
	r := xmladapter.NewElement("Relationship")
	r.SetAttr("", "Id", id)
	r.SetAttr("", "Type", relType)
	r.SetAttr("", "Target", filename)
	rels.Children = append(rels.Children, r)
	return []Directive{{Kind: DirectiveRelationshipAdded, Detail: id}}
}

func nextRelID(rels *xmladapter.Node) string {
	max := 0
	for _, r := range rels.ChildrenOf("Relationship") {
		v, ok := r.Attr("Id")
		if !ok {
			continue
		}
		n, ok := strings.CutPrefix(v, "rId")
		if !ok {
			continue
		}
		if i, err := strconv.Atoi(n); err == nil && i > max {
			max = i
		}
	}
	return "rId" + strconv.Itoa(max+1)
}

// EnsureNumberingPart ensures the content-type override and relationship
// entry for word/numbering.xml exist, given the PartSet already carries or
// will carry the numbering part document itself.
func EnsureNumberingPart(ps *PartSet) []Directive {
	var out []Directive
	if ps.ContentTypes != nil {
		out = append(out, EnsureContentTypeOverride(ps.ContentTypes, "numbering.xml", numberingContentType)...)
	}
	if ps.Relationships != nil {
		out = append(out, EnsureRelationship(ps.Relationships, "numbering.xml", numberingRelType)...)
	}
	return out
}

// EnsureCommentsPart ensures the content-type override and relationship
// entry for word/comments.xml exist.
func EnsureCommentsPart(ps *PartSet) []Directive {
	var out []Directive
	if ps.ContentTypes != nil {
		out = append(out, EnsureContentTypeOverride(ps.ContentTypes, "comments.xml", commentsContentType)...)
	}
	if ps.Relationships != nil {
		out = append(out, EnsureRelationship(ps.Relationships, "comments.xml", commentsRelType)...)
	}
	return out
}

// Merge applies whichever of Numbering/Comments are present in incoming to
// ps, ensuring their content-type/relationship entries, and returns the
// merged PartSet plus the directives taken. Incoming numbering definitions
// are merged into ps.Numbering with their ids remapped (see
// mergeNumbering). An incoming comments part replaces ps.Comments as a
// whole: comments already in ps.Comments are not kept, and comment ids are
// not checked for duplicates.
func Merge(ps PartSet, incoming PartSet) (PartSet, []Directive, error) {
	var directives []Directive

	if incoming.Numbering != nil {
		merged, mergeDirective, err := mergeNumbering(ps.Numbering, incoming.Numbering)
		if err != nil {
			return PartSet{}, nil, err
		}
		ps.Numbering = merged
		directives = append(directives, EnsureNumberingPart(&ps)...)
		directives = append(directives, mergeDirective)
	}
	if incoming.Comments != nil {
		ps.Comments = incoming.Comments
		directives = append(directives, EnsureCommentsPart(&ps)...)
		directives = append(directives, Directive{Kind: DirectiveCommentsMerged})
	}

	return ps, directives, nil
}

// mergeNumbering folds incoming's numbering definitions into dest, remapping
// incoming numIds into free slots of dest's own id space rather than
// overwriting dest wholesale — the two parts may each reference their own
// numIds from unrelated list instances, so a bare replacement would either
// discard dest's existing lists or collide their numIds with incoming's.
//
// When dest is nil there is nothing to merge into; incoming is adopted as-is
// and the directive carries an empty remap (every incoming numId is already
// free).
func mergeNumbering(dest, incoming *xmladapter.Node) (*xmladapter.Node, Directive, error) {
	if dest == nil {
		return incoming, Directive{Kind: DirectiveNumberingMerged, NumberingRemap: map[int]int{}}, nil
	}

	svc := numbering.New(xmladapter.Serialize(dest), 0)
	remap, err := svc.MergeInto(numbering.ParseDefinitions(incoming))
	if err != nil {
		return nil, Directive{}, err
	}

	merged := dest.Clone()
	added := svc.EmitPart()
	merged.Children = interleaveNumberingChildren(merged.Children, added.Children)

	return merged, Directive{
		Kind:           DirectiveNumberingMerged,
		Detail:         strconv.Itoa(len(remap)) + " numbering id(s) remapped",
		NumberingRemap: remap,
	}, nil
}

// interleaveNumberingChildren reinserts added's abstractNum/num elements so
// every abstractNum still precedes every num in the result, matching the
// CT_Numbering element order a bare append would violate whenever existing
// already has any w:num entries.
func interleaveNumberingChildren(existing, added []*xmladapter.Node) []*xmladapter.Node {
	var abstracts, nums, rest []*xmladapter.Node
	for _, n := range existing {
		switch n.Local {
		case "abstractNum":
			abstracts = append(abstracts, n)
		case "num":
			nums = append(nums, n)
		default:
			rest = append(rest, n)
		}
	}
	for _, n := range added {
		switch n.Local {
		case "abstractNum":
			abstracts = append(abstracts, n)
		case "num":
			nums = append(nums, n)
		}
	}
	out := make([]*xmladapter.Node, 0, len(abstracts)+len(nums)+len(rest))
	out = append(out, rest...)
	out = append(out, abstracts...)
	out = append(out, nums...)
	return out
}
