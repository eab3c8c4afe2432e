package mdpre

import (
	"testing"

	"github.com/falcomza/reconcile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripBold(t *testing.T) {
	clean, hints := Strip("This is **sample** text.")
	assert.Equal(t, "This is sample text.", clean)
	require.Len(t, hints, 1)
	assert.Equal(t, model.FormatBold, hints[0].Flags)
	assert.Equal(t, "sample", string([]rune(clean)[hints[0].Start:hints[0].End]))
}

func TestStripMultipleMarkers(t *testing.T) {
	clean, hints := Strip("The *quick* ~~brown~~ fox.")
	assert.Equal(t, "The quick brown fox.", clean)
	assert.Len(t, hints, 2)
}

func TestStripNoMarkersUnchanged(t *testing.T) {
	clean, hints := Strip("plain text")
	assert.Equal(t, "plain text", clean)
	assert.Empty(t, hints)
}

func TestClassifyLineBulletList(t *testing.T) {
	cl := ClassifyLine("- Alpha")
	assert.Equal(t, LineListItem, cl.Kind)
	assert.Equal(t, "Alpha", cl.Text)
	assert.Equal(t, model.MarkerBullet, cl.Marker)
}

func TestClassifyLineNestedBullet(t *testing.T) {
	cl := ClassifyLine("  - Beta")
	assert.Equal(t, LineListItem, cl.Kind)
	assert.Equal(t, 2, cl.Indent)
}

func TestClassifyLineHeading(t *testing.T) {
	cl := ClassifyLine("## Section")
	assert.Equal(t, LineHeading, cl.Kind)
	assert.Equal(t, 2, cl.HeadingLvl)
	assert.Equal(t, "Section", cl.Text)
}

func TestParseListRecognizesThreeItems(t *testing.T) {
	pl, ok := ParseList("- Alpha\n  - Beta\n- Gamma")
	require.True(t, ok)
	require.Len(t, pl.Items, 3)
	assert.Equal(t, 1, pl.Items[1].Level)
}

func TestParseListRejectsPlainText(t *testing.T) {
	_, ok := ParseList("just a paragraph\nwith two lines")
	assert.False(t, ok)
}

func TestHasBlockFeaturesDetectsHeading(t *testing.T) {
	assert.True(t, HasBlockFeatures("# Title\nbody"))
}

func TestHasBlockFeaturesPlainTextFalse(t *testing.T) {
	assert.False(t, HasBlockFeatures("just one line"))
}
