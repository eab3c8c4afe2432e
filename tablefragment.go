package reconcile

import (
	"github.com/falcomza/reconcile/internal/tablegrid"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

// GenerateTableFragment builds a WML table from Markdown table syntax, per
// spec.md §6 contract 3.
func GenerateTableFragment(ctx *Context, markdownTable string, opts TableOptions) (TableResult, error) {
	tbl, ok := tablegrid.GenerateFromMarkdown(markdownTable, tablegrid.GenerateOptions{
		BorderSize:  opts.BorderSize,
		BorderColor: opts.BorderColor,
	})
	if !ok {
		return TableResult{IsValid: false}, NewInvalidTableMarkdownError("markdown does not parse as a table with at least one header or row")
	}
	return TableResult{WML: xmladapter.Serialize(tbl), IsValid: true}, nil
}
