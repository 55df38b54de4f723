package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"redpersona/internal/persona"
)

// Writer emits persona reports to a stream and, optionally, to disk.
type Writer struct {
	outputDir string
}

// NewWriter returns a Writer that saves files under outputDir.
// An empty outputDir disables file output.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

const fileTemplate = `REDDIT USER PERSONA ANALYSIS
==================================================

Username: {{.Username}}
Analysis Date: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Posts Analyzed: {{.PostsAnalyzed}}
Comments Analyzed: {{.CommentsAnalyzed}}

==================================================

{{.Report}}

==================================================
ANALYSIS COMPLETE
`

var fileTmpl = template.Must(template.New("persona").Parse(fileTemplate))

// Print writes the persona report text to w.
func (wr *Writer) Print(w io.Writer, p *persona.Persona) error {
	_, err := fmt.Fprintln(w, p.Report)
	return err
}

// Save renders the full report file and returns its path. It returns
// an empty path when no output directory is configured.
func (wr *Writer) Save(p *persona.Persona) (string, error) {
	if wr.outputDir == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering persona report: %w", err)
	}

	if err := os.MkdirAll(wr.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", wr.outputDir, err)
	}

	name := fmt.Sprintf("%s_persona_%s.txt", p.Username, p.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(wr.outputDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}

	slog.Info("persona saved", "path", path)
	return path, nil
}
