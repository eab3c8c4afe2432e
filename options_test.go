package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptionsYAML(t *testing.T) {
	data := []byte("author: Reviewer\ngenerateRedlines: false\nvalidationMode: always\nyieldRunThreshold: 10\n")

	fo, err := LoadOptionsYAML(data)
	require.NoError(t, err)
	require.Equal(t, "Reviewer", fo.Author)
	require.NotNil(t, fo.GenerateRedlines)
	require.False(t, *fo.GenerateRedlines)
	require.Equal(t, 10, fo.YieldRunThreshold)

	opts := fo.RedlineOptions()
	require.Equal(t, "Reviewer", opts.Author)
	require.False(t, opts.GenerateRedlines)
	require.Equal(t, ValidationAlways, opts.ValidationMode)

	ctx := NewContext("default")
	fo.ApplyTo(ctx)
	require.Equal(t, "Reviewer", ctx.Author)
	require.Equal(t, 10, ctx.YieldRunThreshold)
}

func TestLoadOptionsYAMLMalformed(t *testing.T) {
	_, err := LoadOptionsYAML([]byte("author: [unterminated"))
	require.Error(t, err)
}
