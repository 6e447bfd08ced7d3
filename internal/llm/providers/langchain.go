// File path: internal/llm/providers/langchain.go
package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// embeddingModel is the slice of the langchaingo model surface needed for
// query and chunk vectors; both the openai and ollama backends provide it.
type embeddingModel interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// LangchainProvider adapts a langchaingo model pair to the Provider
// interface.
type LangchainProvider struct {
	name        string
	chat        llms.Model
	embedder    embeddingModel
	temperature float64
	maxTokens   int
}

// LangchainConfig carries the generation knobs shared by all backends.
type LangchainConfig struct {
	Name        string
	Temperature float64
	MaxTokens   int
}

// NewLangchainProvider wraps the given chat model and embedder. The embedder
// may be the same value as the chat model when the backend serves both.
func NewLangchainProvider(cfg LangchainConfig, chat llms.Model, embedder embeddingModel) (*LangchainProvider, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat model required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding model required")
	}
	name := cfg.Name
	if name == "" {
		name = "langchain"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	return &LangchainProvider{
		name:        name,
		chat:        chat,
		embedder:    embedder,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (p *LangchainProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := schema.ChatMessageTypeHuman
		if msg.Role == "system" {
			role = schema.ChatMessageTypeSystem
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	resp, err := p.chat.GenerateContent(ctx, content,
		llms.WithTemperature(p.temperature),
		llms.WithMaxTokens(p.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Content, nil
}

func (p *LangchainProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}
	vectors, err := p.embedder.CreateEmbedding(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	return vectors, nil
}

func (p *LangchainProvider) Name() string {
	return p.name
}

var _ Provider = (*LangchainProvider)(nil)
