// File path: internal/docs/chunk_test.go
package docs

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkLinesOverlap(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	chunks := ChunkLines(strings.Join(lines, "\n"), 4, 1)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	// Each window starts where the previous one ended minus the overlap.
	if !strings.HasPrefix(chunks[1], "line 3") {
		t.Fatalf("unexpected second chunk start: %q", chunks[1])
	}
	if !strings.HasSuffix(chunks[2], "line 9") {
		t.Fatalf("last chunk must reach the end: %q", chunks[2])
	}
}

func TestChunkLinesSkipsBlankLines(t *testing.T) {
	chunks := ChunkLines("a\n\n\nb\n", 40, 0)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a\nb" {
		t.Fatalf("unexpected chunk %q", chunks[0])
	}
}

func TestChunkLinesEmptyInput(t *testing.T) {
	if chunks := ChunkLines("   \n \n", 40, 0); chunks != nil {
		t.Fatalf("expected nil, got %v", chunks)
	}
}
