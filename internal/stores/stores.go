package stores

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/minsung-dev/choomup/internal/shared"
)

// loadJSON reads and unmarshals the JSON file at path into target.
// Returns os.ErrNotExist (wrapped) when the file is missing so callers can
// choose between fatal and start-fresh semantics.
func loadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// persistJSON marshals value with indentation and writes it atomically.
func persistJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal %s: %v", shared.ErrPersistFailed, path, err)
	}
	if err := shared.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersistFailed, err)
	}
	return nil
}
