package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractsAcceptedRunText(t *testing.T) {
	wml := `<w:p><w:r><w:t>Hello </w:t></w:r><w:del><w:r><w:delText>old</w:delText></w:r></w:del><w:r><w:t>world</w:t></w:r></w:p>`

	text, err := plainText(wml)
	require.NoError(t, err)
	require.Equal(t, "Hello world", text)
}

func TestPlainTextRejectsMalformedFragment(t *testing.T) {
	_, err := plainText("<w:r><w:t>not a paragraph</w:t></w:r>")
	require.Error(t, err)
}

func TestReadArgReadsFileContent(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/fragment.txt"
	require.NoError(t, os.WriteFile(path, []byte("sample content"), 0o644))

	data, err := readArg(path)
	require.NoError(t, err)
	require.Equal(t, "sample content", data)
}
