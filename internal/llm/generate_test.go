// File path: internal/llm/generate_test.go
package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	response string
	err      error
	delay    time.Duration
}

func (s *scriptedProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *scriptedProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	return nil, nil
}

func (s *scriptedProvider) Name() string { return "scripted" }

func TestGenerateReturnsModelText(t *testing.T) {
	provider := &scriptedProvider{response: "summary text"}
	out, err := Generate(context.Background(), provider, "summarize this", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "summary text" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestGenerateWrapsProviderError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("quota exceeded")}
	_, err := Generate(context.Background(), provider, "prompt", 0)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	provider := &scriptedProvider{response: "late", delay: 200 * time.Millisecond}
	_, err := Generate(context.Background(), provider, "prompt", 10*time.Millisecond)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed on timeout, got %v", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	provider := &scriptedProvider{response: "x"}
	if _, err := Generate(context.Background(), provider, "  ", 0); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed for empty prompt, got %v", err)
	}
}
