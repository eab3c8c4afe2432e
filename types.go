package reconcile

import (
	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/parts"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// ValidationMode names an output re-parse policy (auto, always, never), per
// spec.md §6 contract 1. ApplyRedlineToParagraphFragment reads neither it
// nor RedlineOptions.ValidateOutput, and does not re-parse its output.
type ValidationMode int

const (
	ValidationAuto ValidationMode = iota
	ValidationAlways
	ValidationNever
)

// RedlineOptions configures ApplyRedlineToParagraphFragment.
type RedlineOptions struct {
	Author                  string
	GenerateRedlines        bool // default true; use NewRedlineOptions for the default
	TargetParagraphIdentity string
	ValidateOutput          bool
	ValidationMode          ValidationMode
}

// NewRedlineOptions returns RedlineOptions with GenerateRedlines defaulted
// to true, per spec.md §6's `generateRedlines=true` default.
func NewRedlineOptions(author string) RedlineOptions {
	return RedlineOptions{Author: author, GenerateRedlines: true}
}

// RedlineResult is the output of ApplyRedlineToParagraphFragment.
type RedlineResult struct {
	WML             string
	HasChanges      bool
	Warnings        []string
	UseNativeAPI    bool
	FormatHints     []model.FormatHint
	SurgicalChanges bool
	IsFormatOnly    bool
}

// ListOptions configures GenerateListFragment.
type ListOptions struct {
	Author       string
	OriginalText string
}

// NumberingContext is re-exported so callers never import internal/model
// directly to build the numCtx argument of GenerateListFragment.
type NumberingContext = model.NumberingContext

// ListResult is the output of GenerateListFragment.
type ListResult struct {
	WML              string
	NumberingXML     string
	IncludeNumbering bool
}

// TableOptions configures GenerateTableFragment.
type TableOptions struct {
	BorderSize  int
	BorderColor string
}

// TableResult is the output of GenerateTableFragment.
type TableResult struct {
	WML     string
	IsValid bool
}

// CommentRequest is one comment-injection instruction, per spec.md §6
// contract 4.
type CommentRequest struct {
	ParagraphIndex int
	TextToFind     string
	CommentContent string
	Author         string
}

// CommentOptions configures InjectCommentsIntoDocumentFragment.
type CommentOptions struct {
	ExistingCommentsXML string
}

// CommentOutcome is one request's per-change result.
type CommentOutcome struct {
	Request CommentRequest
	ID      int
	OK      bool
	Reason  string
}

// CommentResult is the output of InjectCommentsIntoDocumentFragment.
type CommentResult struct {
	WML             string
	CommentsXML     string
	CommentsApplied []CommentOutcome
	Warnings        []string
}

// TargetRef is the resolution request of spec.md §4.11/§6 contract 5.
type TargetRef struct {
	TargetRef  string
	TargetText string
	Snapshot   *model.TargetSnapshot
}

// ResolveResult is the output of ResolveTargetParagraph.
type ResolveResult struct {
	ParagraphNode  *xmladapter.Node
	ParagraphIndex int
	ResolvedBy     model.ResolvedBy
	DriftDetected  bool
}

// RoutePlan is re-exported so callers of PlanRoute never import
// internal/model directly.
type RoutePlan = model.RoutePlan

// PartSet is the collection of sibling parts MergeSiblingParts reads/writes,
// per spec.md §6 contract 7.
type PartSet = parts.PartSet

// MergeDirective records one action MergeSiblingParts performed.
type MergeDirective = parts.Directive
