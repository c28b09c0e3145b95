package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed builtin/*.html
var builtinFS embed.FS

// Install copies the bundled starter templates into the target
// directory and returns how many files were written. Existing files
// are kept unless overwrite is set.
func Install(targetDir string, overwrite bool) (int, error) {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create template directory %s: %w", targetDir, err)
	}

	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return 0, fmt.Errorf("failed to read builtin templates: %w", err)
	}

	copied := 0
	for _, entry := range entries {
		dst := filepath.Join(targetDir, entry.Name())
		if !overwrite {
			if _, err := os.Stat(dst); err == nil {
				continue
			}
		}

		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return copied, fmt.Errorf("failed to read builtin template %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return copied, fmt.Errorf("failed to install template %s: %w", dst, err)
		}
		copied++
	}

	return copied, nil
}
