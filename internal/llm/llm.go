// File path: internal/llm/llm.go
package llm

import (
	"os"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider selects a backend from the environment: OpenAI-compatible when
// OPENAI_API_KEY is set, Ollama when OLLAMA_BASE_URL is set, otherwise the
// local echo stub.
func NewProvider() Provider {
	logger := common.Logger()

	temperature := 0.2
	if raw := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			temperature = parsed
		} else {
			logger.Warn("llm: invalid LLM_TEMPERATURE, using default", "value", raw, "error", err)
		}
	}
	maxTokens := 0
	if raw := strings.TrimSpace(os.Getenv("LLM_MAX_TOKENS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			maxTokens = parsed
		} else {
			logger.Warn("llm: invalid LLM_MAX_TOKENS, using default", "value", raw, "error", err)
		}
	}
	cfg := providers.LangchainConfig{Temperature: temperature, MaxTokens: maxTokens}

	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		opts := []openai.Option{openai.WithToken(apiKey)}
		chatModel := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
		if chatModel == "" {
			chatModel = "gpt-4o-mini"
		}
		opts = append(opts, openai.WithModel(chatModel))
		embedModel := strings.TrimSpace(os.Getenv("OPENAI_EMBED_MODEL"))
		if embedModel == "" {
			embedModel = "text-embedding-3-small"
		}
		opts = append(opts, openai.WithEmbeddingModel(embedModel))
		if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
			logger.Info("llm: using custom OpenAI endpoint", "endpoint", endpoint)
			opts = append(opts, openai.WithBaseURL(endpoint))
		}
		model, err := openai.New(opts...)
		if err != nil {
			logger.Error("llm: openai init failed; falling back to local provider", "error", err)
			return providers.NewLocalProvider()
		}
		cfg.Name = "openai"
		provider, err := providers.NewLangchainProvider(cfg, model, model)
		if err != nil {
			logger.Error("llm: provider init failed; falling back to local provider", "error", err)
			return providers.NewLocalProvider()
		}
		logger.Info("llm: OpenAI provider selected", "chat_model", chatModel, "embed_model", embedModel)
		return provider
	}

	if baseURL := strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL")); baseURL != "" {
		chatModel := strings.TrimSpace(os.Getenv("OLLAMA_CHAT_MODEL"))
		if chatModel == "" {
			chatModel = "mistral"
		}
		embedModel := strings.TrimSpace(os.Getenv("OLLAMA_EMBED_MODEL"))
		if embedModel == "" {
			embedModel = "nomic-embed-text"
		}
		chat, err := ollama.New(ollama.WithModel(chatModel), ollama.WithServerURL(baseURL))
		if err != nil {
			logger.Error("llm: ollama init failed; falling back to local provider", "error", err)
			return providers.NewLocalProvider()
		}
		embedder, err := ollama.New(ollama.WithModel(embedModel), ollama.WithServerURL(baseURL))
		if err != nil {
			logger.Error("llm: ollama embedder init failed; falling back to local provider", "error", err)
			return providers.NewLocalProvider()
		}
		cfg.Name = "ollama"
		provider, err := providers.NewLangchainProvider(cfg, chat, embedder)
		if err != nil {
			logger.Error("llm: provider init failed; falling back to local provider", "error", err)
			return providers.NewLocalProvider()
		}
		logger.Info("llm: Ollama provider selected", "chat_model", chatModel, "embed_model", embedModel)
		return provider
	}

	logger.Warn("llm: no provider credentials set; using local stub")
	return providers.NewLocalProvider()
}
