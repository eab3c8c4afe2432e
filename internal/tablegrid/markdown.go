package tablegrid

import "strings"

// MarkdownTable is a parsed Markdown table: a header row (possibly empty)
// plus data rows, all cells trimmed of surrounding whitespace.
type MarkdownTable struct {
	Header []string
	Rows   [][]string
}

// ParseMarkdownTable recognizes a block of at least two non-empty lines.
// When the second line is a separator row, the first line is the header and
// the lines after the separator are data rows. Without a separator row every
// line must start with "|" and all of them are data rows (Header is empty).
// Returns ok=false for fewer than two lines, or for a block with no
// separator row whose lines do not all start with "|" (an
// invalid-table-markdown condition the caller reports).
func ParseMarkdownTable(md string) (*MarkdownTable, bool) {
	lines := splitNonEmptyLines(md)
	if len(lines) < 2 {
		return nil, false
	}
	if !isSeparatorRow(lines[1]) {
		t := &MarkdownTable{}
		for _, l := range lines {
			if !strings.HasPrefix(strings.TrimSpace(l), "|") {
				return nil, false
			}
			t.Rows = append(t.Rows, splitCells(l))
		}
		return t, true
	}
	t := &MarkdownTable{Header: splitCells(lines[0])}
	for _, l := range lines[2:] {
		t.Rows = append(t.Rows, splitCells(l))
	}
	return t, true
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func isSeparatorRow(line string) bool {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	if trimmed == "" {
		return false
	}
	for _, cell := range strings.Split(trimmed, "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
