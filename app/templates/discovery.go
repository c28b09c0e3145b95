package templates

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Template files are named <name>_<lang>.html with lang one of de/en.
// Anything else in the directory is ignored.
var templatePattern = regexp.MustCompile(`^(.+)_(de|en)\.html$`)

// Info describes one discovered template file.
type Info struct {
	Name     string
	Language string
	Path     string
}

// List scans a directory (non-recursively) for template files.
// A missing directory yields an empty list, not an error.
func List(templateDir string) ([]Info, error) {
	entries, err := os.ReadDir(templateDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory %s: %w", templateDir, err)
	}

	var found []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := templatePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		found = append(found, Info{
			Name:     match[1],
			Language: match[2],
			Path:     filepath.Join(templateDir, entry.Name()),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Name != found[j].Name {
			return found[i].Name < found[j].Name
		}
		return found[i].Language < found[j].Language
	})

	return found, nil
}

// Resolve returns the path of the template for an explicit (name,
// language) pair.
func Resolve(templateDir, name, language string) (string, error) {
	candidate := filepath.Join(templateDir, fmt.Sprintf("%s_%s.html", name, language))
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("template not found: %s (expected filename format '<name>_%s.html')", candidate, language)
	}
	return candidate, nil
}

// Validate parses a template file and reports syntax errors, so broken
// templates fail before any generation attempt.
func Validate(templatePath string) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("template file not found: %s", templatePath)
	}

	if _, err := template.New(filepath.Base(templatePath)).Parse(string(content)); err != nil {
		return fmt.Errorf("invalid template syntax in %s: %w", templatePath, err)
	}

	return nil
}
