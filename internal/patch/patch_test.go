package patch

import (
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/worddiff"
	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textEntry(text string, start int) model.RunEntry {
	return model.RunEntry{Kind: model.RunText, Text: text, StartOffset: start, EndOffset: start + len([]rune(text))}
}

func boldProps() *xmladapter.Node {
	rPr := xmladapter.NewElement("rPr")
	rPr.Space = "w"
	b := xmladapter.NewElement("b")
	b.Space = "w"
	rPr.Children = append(rPr.Children, b)
	return rPr
}

func TestPatchDeleteMiddleWord(t *testing.T) {
	old := "The quick brown fox"
	new := "The quick fox"
	rm := &model.RunModel{Entries: []model.RunEntry{textEntry(old, 0)}}
	ops := worddiff.Diff(old, new)

	out, formatOnly := Patch(rm, ops, nil, "jdoe")
	require.False(t, formatOnly)

	assert.Equal(t, new, out.AcceptedText())
	assert.Contains(t, out.DeletedText(), "brown")
}

func TestPatchInsertInheritsLeftNeighborProps(t *testing.T) {
	old := "hello world"
	new := "hello brave world"
	rm := &model.RunModel{Entries: []model.RunEntry{textEntry(old, 0)}}
	ops := worddiff.Diff(old, new)

	out, formatOnly := Patch(rm, ops, nil, "jdoe")
	require.False(t, formatOnly)
	assert.Equal(t, new, out.AcceptedText())

	var sawInsertion bool
	for _, e := range out.Entries {
		if e.Kind == model.RunInsertion {
			sawInsertion = true
			assert.Contains(t, e.Text, "brave")
		}
	}
	assert.True(t, sawInsertion)
}

func TestPatchEqualTextPassesThrough(t *testing.T) {
	text := "no change here"
	rm := &model.RunModel{Entries: []model.RunEntry{textEntry(text, 0)}}
	ops := worddiff.Diff(text, text)

	out, formatOnly := Patch(rm, ops, nil, "jdoe")
	assert.True(t, formatOnly)
	assert.Equal(t, text, out.AcceptedText())
	for _, e := range out.Entries {
		assert.Equal(t, model.RunText, e.Kind)
	}
}

func TestFormatOnlyPatchEmitsPropertyChange(t *testing.T) {
	text := "emphasis word here"
	rm := &model.RunModel{Entries: []model.RunEntry{textEntry(text, 0)}}
	ops := worddiff.Diff(text, text)
	hints := []model.FormatHint{{Start: 0, End: 8, Flags: model.FormatBold}}

	out, formatOnly := Patch(rm, ops, hints, "jdoe")
	require.True(t, formatOnly)

	var sawChange bool
	for _, e := range out.Entries {
		if e.PropertyChangeXML != nil || (e.RunPropertiesXML != nil && e.RunPropertiesXML.Child("b") != nil) {
			sawChange = true
		}
	}
	assert.True(t, sawChange)
}

func TestFormatOnlyPatchNoHintsIsNoOp(t *testing.T) {
	text := "plain text"
	rm := &model.RunModel{Entries: []model.RunEntry{textEntry(text, 0)}}
	out := formatOnlyPatch(rm, nil)
	assert.Equal(t, rm, out)
}

func TestPatchSplitsInsertAtFormatHintBoundary(t *testing.T) {
	old := ""
	new := "Hello world there"
	rm := &model.RunModel{}
	ops := worddiff.Diff(old, new)
	boldStart := len("Hello ")
	boldEnd := boldStart + len("world")
	hints := []model.FormatHint{{Start: boldStart, End: boldEnd, Flags: model.FormatBold}}

	out, formatOnly := Patch(rm, ops, hints, "jdoe")
	require.False(t, formatOnly)
	assert.Equal(t, new, out.AcceptedText())

	for _, e := range out.Entries {
		if e.Kind != model.RunInsertion {
			continue
		}
		isBold := e.RunPropertiesXML != nil && e.RunPropertiesXML.Child("b") != nil
		if e.Text == "world" {
			assert.True(t, isBold, "the bolded word itself must be bold")
		} else {
			assert.False(t, isBold, "text outside the hint range must not inherit bold: %q", e.Text)
		}
	}
}

func TestFormatOnlyPatchRemovesVanishedBold(t *testing.T) {
	text := "emphasis word here"
	entry := textEntry(text, 0)
	entry.RunPropertiesXML = boldProps()
	rm := &model.RunModel{Entries: []model.RunEntry{entry}}

	out := formatOnlyPatch(rm, nil)

	var sawRemoval bool
	for _, e := range out.Entries {
		if e.PropertyChangeXML != nil && (e.RunPropertiesXML == nil || e.RunPropertiesXML.Child("b") == nil) {
			sawRemoval = true
		}
	}
	assert.True(t, sawRemoval)
}
