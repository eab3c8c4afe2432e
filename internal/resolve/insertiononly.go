package resolve

import "strings"

// InsertionPlan is the result of insertion-only planning: when the proposed
// modified text begins with the anchor block's own text and adds further
// list lines, only the new trailing lines need to be emitted as insertions
// after the anchor, per spec.md §4.11.
type InsertionPlan struct {
	NewLines []string
}

// PlanInsertionOnly reports whether modifiedText is the block's
// originalText plus further list lines, and if so returns just the new
// lines to insert after the anchor block.
func PlanInsertionOnly(originalText, modifiedText string) (*InsertionPlan, bool) {
	origTrim := strings.TrimRight(originalText, "\n")
	if origTrim == "" || !strings.HasPrefix(modifiedText, origTrim) {
		return nil, false
	}
	rest := strings.TrimPrefix(modifiedText, origTrim)
	rest = strings.TrimPrefix(rest, "\n")
	if rest == "" {
		return nil, false
	}
	var lines []string
	for _, l := range strings.Split(rest, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, false
	}
	return &InsertionPlan{NewLines: lines}, true
}
