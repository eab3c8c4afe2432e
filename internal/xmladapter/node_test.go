package xmladapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	frag := `<w:p><w:r><w:t xml:space="preserve">Hello world</w:t></w:r></w:p>`
	n, err := Parse(frag)
	require.NoError(t, err)
	assert.Equal(t, "p", n.Local)
	run := n.Child("r")
	require.NotNil(t, run)
	text := run.Child("t")
	require.NotNil(t, text)
	assert.Equal(t, "Hello world", text.Text())

	out := Serialize(n)
	assert.Equal(t, frag, out)
}

func TestAttrLookup(t *testing.T) {
	n, err := Parse(`<w:t xml:space="preserve">x</w:t>`)
	require.NoError(t, err)
	v, ok := n.Attr("space")
	require.True(t, ok)
	assert.Equal(t, "preserve", v)

	_, ok = n.Attr("missing")
	assert.False(t, ok)
}

func TestSetAttrAddsNew(t *testing.T) {
	n := NewElement("ins")
	n.SetAttr("w", "id", "7")
	v, ok := n.AttrNS("w", "id")
	require.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestCloneIsIndependent(t *testing.T) {
	n, err := Parse(`<w:r><w:t>a</w:t></w:r>`)
	require.NoError(t, err)
	cp := n.Clone()
	cp.Child("t").Children[0].CharData = "b"
	assert.Equal(t, "a", n.Child("t").Text())
	assert.Equal(t, "b", cp.Child("t").Text())
}
