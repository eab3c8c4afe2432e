package serialize

import (
	"strings"
	"testing"
	"time"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/falcomza/reconcile/internal/xmladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(start int) func() int {
	n := start
	return func() int {
		id := n
		n++
		return id
	}
}

func fixedOpts() Options {
	return Options{
		Author:         "jdoe",
		Date:           time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		NextRevisionID: counter(1),
	}
}

func TestSerializePlainText(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{{Kind: model.RunText, Text: "hello"}}}
	out := Serialize(rm, fixedOpts())
	assert.Contains(t, out, "<w:r>")
	assert.Contains(t, out, "<w:t>hello</w:t>")
}

func TestSerializeDeletionWrapsWithIDAuthorDate(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{{Kind: model.RunDeletion, Text: "gone"}}}
	out := Serialize(rm, fixedOpts())
	require.Contains(t, out, "<w:del")
	assert.Contains(t, out, `w:author="jdoe"`)
	assert.Contains(t, out, `w:id="1"`)
	assert.Contains(t, out, `w:date="2026-01-02T03:04:05Z"`)
	assert.Contains(t, out, "<w:delText")
	assert.Contains(t, out, "gone")
}

func TestSerializeInsertionWrapsWithID(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{{Kind: model.RunInsertion, Text: "new"}}}
	out := Serialize(rm, fixedOpts())
	require.Contains(t, out, "<w:ins")
	assert.Contains(t, out, `w:id="1"`)
}

func TestSerializeWhitespacePreserve(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{{Kind: model.RunText, Text: " leading space"}}}
	out := Serialize(rm, fixedOpts())
	assert.Contains(t, out, `xml:space="preserve"`)
}

func TestSerializeNoWhitespacePreserveWhenNotNeeded(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{{Kind: model.RunText, Text: "tight"}}}
	out := Serialize(rm, fixedOpts())
	assert.False(t, strings.Contains(out, "xml:space"))
}

func TestSerializePropertyChangeEmitsRPrChange(t *testing.T) {
	original := xmladapter.NewElement("rPr")
	rm := &model.RunModel{Entries: []model.RunEntry{{
		Kind:              model.RunText,
		Text:              "word",
		PropertyChangeXML: original,
	}}}
	out := Serialize(rm, fixedOpts())
	assert.Contains(t, out, "<w:rPrChange")
}

func TestSerializeTwoIDsAreSequential(t *testing.T) {
	rm := &model.RunModel{Entries: []model.RunEntry{
		{Kind: model.RunDeletion, Text: "a"},
		{Kind: model.RunInsertion, Text: "b"},
	}}
	out := Serialize(rm, fixedOpts())
	assert.Contains(t, out, `w:id="1"`)
	assert.Contains(t, out, `w:id="2"`)
}
