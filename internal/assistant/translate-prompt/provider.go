// internal/assistant/translate-prompt/provider.go
package translateprompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"askdata/internal/common/config"
	httpclient "askdata/internal/common/http"
)

var ErrEmptyCompletion = errors.New("completion returned no content")

// Provider is a chat-completion endpoint.
type Provider interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
	Name() string
}

// NewProvider selects the endpoint named by cfg.Provider.
func NewProvider(ctx context.Context, cfg *Config) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// OpenAIProvider speaks the chat/completions protocol.
type OpenAIProvider struct {
	client  *httpclient.Client
	baseURL string
	model   string
	apiKey  string
}

func NewOpenAIProvider(cfg *Config) *OpenAIProvider {
	return &OpenAIProvider{
		client:  httpclient.NewClient(0),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

func (p *OpenAIProvider) Name() string { return config.ProviderOpenAI }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	var resp chatResponse
	err := p.client.PostJSON(ctx, p.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		chatRequest{Model: p.model, Messages: messages, Temperature: temperature},
		&resp,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiProvider uses the Google generative AI SDK. The system message
// becomes the model's system instruction.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg *Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

func (p *GeminiProvider) Name() string { return config.ProviderGemini }

func (p *GeminiProvider) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(float32(temperature))

	var user []genai.Part
	for _, m := range messages {
		if m.Role == RoleSystem {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
			continue
		}
		user = append(user, genai.Text(m.Content))
	}

	resp, err := model.GenerateContent(ctx, user...)
	if err != nil {
		return "", err
	}
	return textFromResponse(resp)
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
