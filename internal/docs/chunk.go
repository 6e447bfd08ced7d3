// File path: internal/docs/chunk.go
package docs

import "strings"

// ChunkLines splits a corpus into overlapping windows of whole lines.
// Pipe rendered tables keep each row intact this way, so a chunk never
// cuts a destination in half.
func ChunkLines(text string, maxLines, overlap int) []string {
	if maxLines <= 0 {
		maxLines = 40
	}
	if overlap < 0 || overlap >= maxLines {
		overlap = maxLines / 4
	}
	lines := make([]string, 0, 64)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	step := maxLines - overlap
	chunks := make([]string, 0, len(lines)/step+1)
	for start := 0; start < len(lines); start += step {
		end := start + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
		if end == len(lines) {
			break
		}
	}
	return chunks
}
