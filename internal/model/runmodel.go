// Package model holds the data types shared across the reconciliation
// pipeline: the tagged-variant Run Model, format hints, diff operations,
// numbering definitions, table grid cells, target snapshots, and route
// plans described by the component specifications.
package model

import "github.com/falcomza/reconcile/internal/xmladapter"

// RunKind tags the variant a RunEntry holds. Replaces duck-typing over the
// XML DOM with an explicit, exhaustively-switchable tag.
type RunKind int

const (
	RunText RunKind = iota
	RunDeletion
	RunInsertion
	RunHyperlink
	RunBookmark
	RunField
	RunContainerStart
	RunContainerEnd
	RunParagraphStart
	RunParagraphEnd
)

func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunDeletion:
		return "deletion"
	case RunInsertion:
		return "insertion"
	case RunHyperlink:
		return "hyperlink"
	case RunBookmark:
		return "bookmark"
	case RunField:
		return "field"
	case RunContainerStart:
		return "container-start"
	case RunContainerEnd:
		return "container-end"
	case RunParagraphStart:
		return "paragraph-start"
	case RunParagraphEnd:
		return "paragraph-end"
	default:
		return "unknown"
	}
}

// RunEntry is one unit of a Run Model. Text-bearing entries (RunText,
// RunDeletion, RunInsertion) carry Text/StartOffset/EndOffset/Author.
// Non-text entries carry NodeXML (opaque, preserved verbatim) and have
// zero-width offsets.
type RunEntry struct {
	Kind RunKind

	// Text-bearing fields.
	Text              string
	RunPropertiesXML  *xmladapter.Node // opaque rPr, preserved verbatim
	StartOffset       int
	EndOffset         int
	Author            string
	RevisionID        int // allocated at serialization time for ins/del
	PropertyChangeXML *xmladapter.Node // original rPr snapshot, for rPrChange

	// Non-text fields.
	NodeXML *xmladapter.Node // verbatim container/marker payload

	// Container bracketing: container-start/end pairs carry a shared key so
	// the serializer can re-emit the original open/close element.
	ContainerTag string
}

// IsTextBearing reports whether the entry contributes characters to either
// Accepted Text or the deleted-text reconstruction.
func (r RunEntry) IsTextBearing() bool {
	switch r.Kind {
	case RunText, RunDeletion, RunInsertion:
		return true
	default:
		return false
	}
}

// RunModel is an ordered sequence of Run Entries representing exactly one
// paragraph (or a virtual grouping produced by cell ingestion).
type RunModel struct {
	Entries             []RunEntry
	ParagraphProperties *xmladapter.Node // opaque, not part of Entries
	NumberingContext     *NumberingContext
	ParagraphIdentity    string
}

// NumberingContext captures the numId/ilvl pair read from a paragraph's
// pPr, if present.
type NumberingContext struct {
	NumID int
	ILvl  int
}

// AcceptedText returns the concatenation of all text of kind
// {text, insertion, hyperlink-contained-text}, i.e. the paragraph's text as
// if all existing tracked changes were accepted. Deletions never appear.
func (rm *RunModel) AcceptedText() string {
	var b []byte
	for _, e := range rm.Entries {
		if e.Kind == RunText || e.Kind == RunInsertion {
			b = append(b, e.Text...)
		}
	}
	return string(b)
}

// DeletedText returns the concatenation of deletion-kind entries, in model
// order, used to reconstruct the "as originally written" text.
func (rm *RunModel) DeletedText() string {
	var b []byte
	for _, e := range rm.Entries {
		if e.Kind == RunDeletion {
			b = append(b, e.Text...)
		}
	}
	return string(b)
}

// FormatFlags is a bitset of inline decoration recognized by the Markdown
// Preprocessor and the Run Splitter & Patcher's format-only path.
type FormatFlags uint8

const (
	FormatBold FormatFlags = 1 << iota
	FormatItalic
	FormatUnderline
	FormatStrikethrough
	FormatCode
	FormatSubscript
	FormatSuperscript
)

// FormatHint is a half-open interval of format flags over clean-text
// offsets. Hints are non-overlapping after normalization (overlaps are
// merged with a flag union).
type FormatHint struct {
	Start, End int
	Flags      FormatFlags
}

// DiffKind tags a Diff Operation.
type DiffKind int

const (
	DiffEqual DiffKind = iota
	DiffInsert
	DiffDelete
)

// DiffOp is one operation of a canonical diff sequence: consecutive ops of
// the same kind are coalesced by the Word-level Diff Engine.
type DiffOp struct {
	Kind             DiffKind
	OldStart, OldEnd int // range in old text (runes)
	NewStart, NewEnd int // range in new text (runes)
	Text             string
}
