package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMarkdownTable = `| Name | Role |
| --- | --- |
| Ada | Engineer |
| Grace | Admiral |`

func TestGenerateTableFragmentProducesTable(t *testing.T) {
	ctx := NewContext("Author")

	result, err := GenerateTableFragment(ctx, sampleMarkdownTable, TableOptions{})
	require.NoError(t, err)
	require.True(t, result.IsValid)
	require.Contains(t, result.WML, "w:tbl")
	require.Contains(t, result.WML, "Ada")
}

func TestGenerateTableFragmentRejectsNonTableMarkdown(t *testing.T) {
	ctx := NewContext("Author")

	result, err := GenerateTableFragment(ctx, "just a plain paragraph, no table here", TableOptions{})
	require.Error(t, err)
	require.False(t, result.IsValid)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ErrCodeInvalidTableMarkdown, rerr.Code)
}
