package compose

import (
	"errors"
	"fmt"
	"os"
)

// ReadOverride reads the local override file at path. An empty path or a
// missing file is not an error: it returns ("", false, nil).
func ReadOverride(path string) (string, bool, error) {
	if path == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading override %s: %w", path, err)
	}
	return string(data), true, nil
}
