package pack

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/anm_browser/vfs"
)

type upperText string

func loadUpperText(src ResourceSource, r *io.SectionReader) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return upperText(bytes.ToUpper(data)), nil
}

func TestHandlerRegistry(t *testing.T) {
	SetHandler(".txtu", loadUpperText)
	assert.Contains(t, Formats(), ".TXTU")

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txtu"), []byte("bone"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.unknown"), []byte("bone"), 0666))
	d := vfs.NewDirectoryDriver(root)

	inst, err := GetInstanceHandler(d, "a.txtu")
	require.NoError(t, err)
	assert.Equal(t, upperText("BONE"), inst)

	_, err = GetInstanceHandler(d, "a.unknown")
	assert.Error(t, err)

	_, err = GetInstanceHandler(d, "missing.txtu")
	assert.Error(t, err)
}

func TestResourceSave(t *testing.T) {
	var saved ResourceSource
	SetHandler(".save", func(src ResourceSource, r *io.SectionReader) (interface{}, error) {
		saved = src
		return nil, nil
	})

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.save"), []byte("old"), 0666))
	d := vfs.NewDirectoryDriver(root)

	_, err := GetInstanceHandler(d, "x.save")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "x.save", saved.Name())
	assert.EqualValues(t, 3, saved.Size())

	require.NoError(t, saved.Save(bytes.NewReader([]byte("newer"))))
	data, err := os.ReadFile(filepath.Join(root, "x.save"))
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), data)

	require.NoError(t, SaveInstance(d, "created.save", bytes.NewReader([]byte("c"))))
	data, err = os.ReadFile(filepath.Join(root, "created.save"))
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), data)
}
