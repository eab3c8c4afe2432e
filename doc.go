// Package reconcile reconciles proposed edits against WordprocessingML
// paragraphs, tables, and documents into tracked-change markup. It exposes
// seven entry points: applying a redline to a paragraph fragment, generating
// a list or table fragment from Markdown, injecting comments into a
// document fragment, resolving a target paragraph by reference or text,
// planning the route an edit should take, and merging the sibling parts
// (numbering, comments, content-types, relationships) a reconciliation call
// may touch.
//
// Every call takes a *Context carrying the author, clock, logger, yield
// callback, and the per-run Numbering Service and revision-id counter —
// state the original implementation this module descends from kept as
// module-level globals.
package reconcile
