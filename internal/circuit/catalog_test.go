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

func TestResolve_ExactMatch(t *testing.T) {
	catalog := NewCatalog()

	cases := map[string]string{
		"Monaco":        "Monaco",
		"monaco":        "Monaco",
		"ABU_DHABI":     "Abu_Dhabi",
		"abu dhabi":     "Abu_Dhabi",
		"usa":           "USA",
		"great britain": "Great_Britain",
	}

	for input, want := range cases {
		got, err := catalog.Resolve(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestResolve_Aliases(t *testing.T) {
	catalog := NewCatalog()

	cases := map[string]string{
		"vegas":             "Las_Vegas",
		"the Vegas track":   "Las_Vegas",
		"COTA":              "USA",
		"circuit at austin": "USA",
		"imola":             "Emilia_Romagna",
		"silverstone":       "Great_Britain",
		"monza grand prix":  "Italy",
		"spa francorchamps": "Belgium",
	}

	for input, want := range cases {
		got, err := catalog.Resolve(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestResolve_WordOverlap(t *testing.T) {
	catalog := NewCatalog()

	got, err := catalog.Resolve("saudi")
	require.NoError(t, err)
	assert.Equal(t, "Saudi_Arabia", got)

	got, err = catalog.Resolve("the vegas strip layout")
	require.NoError(t, err)
	assert.Equal(t, "Las_Vegas", got)
}

func TestResolve_NotFound(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Resolve("Nonexistent Track")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrNotFound))

	// Suggestions are always available and complete
	assert.Len(t, catalog.Names(), 24)
}

func TestResolve_EmptyInput(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Resolve("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrInvalidInput))
}

func TestLoadOverrides(t *testing.T) {
	catalog := NewCatalog()

	path := filepath.Join(t.TempDir(), "circuits.yaml")
	content := []byte("aliases:\n  sakhir: Bahrain\n  island: Australia\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	require.NoError(t, catalog.LoadOverrides(path))

	got, err := catalog.Resolve("sakhir")
	require.NoError(t, err)
	assert.Equal(t, "Bahrain", got)
}

func TestLoadOverrides_UnknownTarget(t *testing.T) {
	catalog := NewCatalog()

	path := filepath.Join(t.TempDir(), "circuits.yaml")
	content := []byte("aliases:\n  mystery: Atlantis\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	err := catalog.LoadOverrides(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pitwallErrors.ErrInvalidInput))
}
