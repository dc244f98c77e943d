package circuit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLookup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Monaco_circuit.png"), []byte("png"), 0o644))

	store := NewStore(dir, NewCatalog())

	img, err := store.Lookup("monaco")
	require.NoError(t, err)
	assert.Equal(t, "Monaco", img.Location)
	assert.Equal(t, filepath.Join(dir, "Monaco_circuit.png"), img.Path)
}

func TestStoreLookup_MissingImage(t *testing.T) {
	store := NewStore(t.TempDir(), NewCatalog())

	_, err := store.Lookup("monaco")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "Monaco")
}

func TestStoreLookup_UnknownLocation(t *testing.T) {
	store := NewStore(t.TempDir(), NewCatalog())

	_, err := store.Lookup("Nonexistent Track")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrNotFound))
}
