// File path: internal/docs/extract.go
// Package docs turns institutional PDFs into the plain text corpora
// the workflow prompts and the section extractor consume. Table rows
// are rendered as pipe separated lines so downstream heuristics can
// recognise tabular structure in flat text.
package docs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Extraction is the raw output of one document. Rows carries table
// cells when the extractor can see table structure; Text carries the
// full linear text either way.
type Extraction struct {
	Rows [][]string
	Text string
}

// Extractor pulls text out of a single document on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (Extraction, error)
}

// PipeText renders an extraction as the corpus format used everywhere
// downstream. Table rows become "cell | cell | cell" lines, with
// newlines inside cells flattened to spaces; when no rows are present
// the plain text is returned as is.
func PipeText(ex Extraction) string {
	if len(ex.Rows) == 0 {
		return ex.Text
	}
	lines := make([]string, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, strings.Join(strings.Fields(cell), " "))
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}

// CommandExtractor shells out to a text extraction binary such as
// pdftotext. The binary must accept the input path and "-" to write
// the text to stdout.
type CommandExtractor struct {
	Binary string
	Args   []string
}

// NewCommandExtractor returns an extractor running the given binary,
// defaulting to pdftotext with layout preservation.
func NewCommandExtractor(binary string, args ...string) *CommandExtractor {
	if strings.TrimSpace(binary) == "" {
		binary = "pdftotext"
		args = []string{"-layout"}
	}
	return &CommandExtractor{Binary: binary, Args: args}
}

func (e *CommandExtractor) Extract(ctx context.Context, path string) (Extraction, error) {
	args := append(append([]string{}, e.Args...), path, "-")
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return Extraction{}, fmt.Errorf("docs: extract %s: %w: %s", path, err, detail)
		}
		return Extraction{}, fmt.Errorf("docs: extract %s: %w", path, err)
	}
	return Extraction{Text: stdout.String()}, nil
}
