package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/esvchat/bible-chat/backend/internal/config"
	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

const providerGemini = "gemini"

// GeminiClient talks to the Gemini API through the genai SDK. It holds no
// conversation state; every Generate call carries the full history.
type GeminiClient struct {
	client     *genai.Client
	model      string
	generation *genai.GenerateContentConfig
}

// NewGeminiClient creates a client for the Gemini API using the configured key.
// The returned client has no model bound yet; see WithModel and SelectModel.
func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	generation := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		temp := float32(cfg.Temperature)
		generation.Temperature = &temp
	}
	if cfg.MaxOutputTokens > 0 {
		generation.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}

	return &GeminiClient{
		client:     client,
		model:      cfg.GeminiModel,
		generation: generation,
	}, nil
}

// WithModel returns a copy of the client bound to model.
func (g *GeminiClient) WithModel(model string) *GeminiClient {
	bound := *g
	bound.model = model
	return &bound
}

// Model reports the bound model name.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate implements Client.
func (g *GeminiClient) Generate(ctx context.Context, history []chat.Turn, message string) (string, error) {
	if g.model == "" {
		return "", fmt.Errorf("%w: gemini client has no model bound", ErrRemoteUnavailable)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, toGeminiContents(history, message), g.generation)
	if err != nil {
		return "", classifyError(providerGemini, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", ErrRemoteUnavailable)
	}
	return text, nil
}

// ListModels implements ModelLister.
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, classifyError(providerGemini, err)
		}
		if m == nil {
			continue
		}
		models = append(models, ModelInfo{
			Name:             m.Name,
			SupportedActions: m.SupportedActions,
			InputTokenLimit:  int(m.InputTokenLimit),
		})
	}
	return models, nil
}

func toGeminiContents(history []chat.Turn, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == chat.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}
