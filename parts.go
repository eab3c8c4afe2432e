package reconcile

import "github.com/falcomza/reconcile/internal/parts"

// MergeSiblingParts applies the part-merge rules of spec.md §4.9/§9 for the
// sibling XML parts a reconciliation call may touch, per §6 contract 7:
// incoming's numbering/comments content is folded into dest, remapping any
// incoming numIds into free slots of dest's own numbering part rather than
// overwriting it outright.
func MergeSiblingParts(dest, incoming PartSet) (PartSet, []MergeDirective, error) {
	return parts.Merge(dest, incoming)
}
