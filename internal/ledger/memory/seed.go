package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"budget/internal/core"
)

// SeedFile is the name looked up by NewFromFiles inside the data directory.
const SeedFile = "seed.json"

type seedData struct {
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"goals"`
}

// NewFromFiles returns a store seeded from base/seed.json. A missing file
// yields an empty store; a malformed one is an error.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	raw, err := os.ReadFile(filepath.Join(base, SeedFile))
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	s.Seed(data.Transactions, data.Goals)
	return s, nil
}
