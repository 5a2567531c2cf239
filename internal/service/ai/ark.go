package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/esvchat/bible-chat/backend/internal/config"
	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

const providerArk = "ark"

// ArkClient relays the history payload to a Volcengine Ark model through an
// eino prompt chain.
type ArkClient struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkClient builds the Ark chat model from cfg and compiles the chain.
func NewArkClient(ctx context.Context, cfg config.AIConfig) (*ArkClient, error) {
	arkCfg := &ark.ChatModelConfig{
		BaseURL: cfg.ArkBaseURL,
		Region:  cfg.ArkRegion,
		APIKey:  cfg.ArkAPIKey,
		Model:   cfg.ArkModel,
	}
	if cfg.Temperature > 0 {
		temp := float32(cfg.Temperature)
		arkCfg.Temperature = &temp
	}
	if cfg.MaxOutputTokens > 0 {
		maxTokens := cfg.MaxOutputTokens
		arkCfg.MaxTokens = &maxTokens
	}

	chatModel, err := ark.NewChatModel(ctx, arkCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newArkClient(ctx, chatModel)
}

func newArkClient(ctx context.Context, chatModel model.ChatModel) (*ArkClient, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("history", false),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkClient{chain: runnable}, nil
}

// Generate implements Client.
func (a *ArkClient) Generate(ctx context.Context, history []chat.Turn, message string) (string, error) {
	input := map[string]any{
		"history": toSchemaMessages(history),
		"query":   message,
	}

	response, err := a.chain.Invoke(ctx, input)
	if err != nil {
		return "", classifyError(providerArk, err)
	}
	if response == nil || response.Content == "" {
		return "", fmt.Errorf("%w: ark returned empty text", ErrRemoteUnavailable)
	}
	return response.Content, nil
}

func toSchemaMessages(history []chat.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case chat.RoleModel:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Text))
		}
	}
	return messages
}
