// Package pdf drives an external document renderer that converts
// finished newsletter HTML into PDF. The renderer is an opaque
// collaborator; no PDF generation happens in-process.
package pdf

import (
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Candidate renderer binaries, in preference order. Both take the
// source HTML path and the destination PDF path as arguments.
var rendererBinaries = []string{"weasyprint", "wkhtmltopdf"}

type Renderer struct {
	binary string
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render converts an HTML file into a PDF with the external renderer.
// A missing renderer binary is a configuration error reported to the
// caller at PDF-write time.
func (r *Renderer) Render(htmlPath, pdfPath string) error {
	binary, err := r.lookup()
	if err != nil {
		return err
	}

	startTime := time.Now()
	cmd := exec.Command(binary, htmlPath, pdfPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("PDF renderer %s failed: %w (output: %s)", binary, err, output)
	}

	slog.Debug("PDF rendered", "renderer", binary, "path", pdfPath, "duration", time.Since(startTime))
	return nil
}

func (r *Renderer) lookup() (string, error) {
	if r.binary != "" {
		return r.binary, nil
	}
	for _, name := range rendererBinaries {
		if path, err := exec.LookPath(name); err == nil {
			r.binary = path
			return path, nil
		}
	}
	return "", fmt.Errorf("PDF generation requested but no renderer found (looked for %v in PATH)", rendererBinaries)
}
