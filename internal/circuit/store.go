package circuit

import (
	"fmt"
	"os"
	"path/filepath"

	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
)

// Image is a resolved circuit map reference.
type Image struct {
	Location string `json:"location"`
	Path     string `json:"path"`
}

// Store serves circuit map images from a fixed directory keyed by canonical
// identifier. Files are named <identifier>_circuit.png.
type Store struct {
	dir     string
	catalog *Catalog
}

func NewStore(dir string, catalog *Catalog) *Store {
	return &Store{dir: dir, catalog: catalog}
}

func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// Lookup resolves a free-text location and returns the image reference.
// An unknown location and a missing image file are distinct failures: the
// first is ErrNotFound from the catalog, the second names the resolved
// identifier so the caller can tell the store is incomplete.
func (s *Store) Lookup(location string) (*Image, error) {
	identifier, err := s.catalog.Resolve(location)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, identifier+"_circuit.png")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, pitwallErrors.NotFound(fmt.Sprintf("image file missing for circuit %s", identifier))
		}
		return nil, fmt.Errorf("stat circuit image: %w", err)
	}

	return &Image{Location: identifier, Path: path}, nil
}
