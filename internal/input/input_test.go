package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchads/searchads/internal/value"
)

func TestReadJSON_Inline(t *testing.T) {
	v, err := ReadJSON(`{"a":1}`)
	require.NoError(t, err)

	got, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.KindNumber, got.Kind())
}

func TestReadJSON_AtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`["x","y"]`), 0o600))

	v, err := ReadJSON("@" + path)
	require.NoError(t, err)
	assert.Len(t, v.Items(), 2)
}

func TestReadJSON_BarePathToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"q":"x"}`), 0o600))

	v, err := ReadJSON(path)
	require.NoError(t, err)
	_, ok := v.Get("q")
	assert.True(t, ok)
}

func TestReadJSON_AtFileMissing(t *testing.T) {
	_, err := ReadJSON("@" + filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read json file")
}

func TestReadJSON_InvalidInline(t *testing.T) {
	_, err := ReadJSON(`{"unterminated":`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON input")
}

func TestReadJSON_InvalidFileNamesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`nope{`), 0o600))

	_, err := ReadJSON("@" + path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
