package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic_de.html", "<html></html>")
	writeFile(t, dir, "basic_en.html", "<html></html>")
	writeFile(t, dir, "special_de.html", "<html></html>")
	writeFile(t, dir, "notes.txt", "ignore me")
	writeFile(t, dir, "broken.html", "no language suffix")
	if err := os.Mkdir(filepath.Join(dir, "archive_de.html"), 0755); err != nil {
		t.Fatal(err)
	}

	found, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 3 {
		t.Fatalf("Expected 3 templates, got %d: %+v", len(found), found)
	}

	if found[0].Name != "basic" || found[0].Language != "de" {
		t.Errorf("Unexpected first entry: %+v", found[0])
	}
	if found[1].Name != "basic" || found[1].Language != "en" {
		t.Errorf("Unexpected second entry: %+v", found[1])
	}
	if found[2].Name != "special" || found[2].Language != "de" {
		t.Errorf("Unexpected third entry: %+v", found[2])
	}
}

func TestList_MissingDirectory(t *testing.T) {
	found, err := List(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Errorf("Expected empty list, got %+v", found)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic_de.html", "<html></html>")

	path, err := Resolve(dir, "basic", "de")
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "basic_de.html") {
		t.Errorf("Unexpected path: %s", path)
	}

	_, err = Resolve(dir, "basic", "en")
	if err == nil {
		t.Fatal("Expected error for missing language variant")
	}
	if !strings.Contains(err.Error(), "expected filename format") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good_de.html", "<html>{{range .Products}}{{.Name}}{{end}}</html>")
	writeFile(t, dir, "bad_de.html", "<html>{{range .Products}}</html>")

	if err := Validate(filepath.Join(dir, "good_de.html")); err != nil {
		t.Errorf("Expected valid template, got %v", err)
	}
	if err := Validate(filepath.Join(dir, "bad_de.html")); err == nil {
		t.Error("Expected syntax error for unterminated range")
	}
	if err := Validate(filepath.Join(dir, "absent_de.html")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()

	count, err := Install(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 installed templates, got %d", count)
	}

	found, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 discoverable templates, got %d", len(found))
	}
	for _, info := range found {
		if err := Validate(info.Path); err != nil {
			t.Errorf("Installed template %s is invalid: %v", info.Path, err)
		}
	}

	// Existing files are preserved unless overwrite is requested.
	marker := filepath.Join(dir, "basic_de.html")
	if err := os.WriteFile(marker, []byte("edited"), 0644); err != nil {
		t.Fatal(err)
	}
	count, err = Install(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected 0 installed without overwrite, got %d", count)
	}
	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "edited" {
		t.Error("Expected local edit to survive install without overwrite")
	}

	count, err = Install(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 installed with overwrite, got %d", count)
	}
}
