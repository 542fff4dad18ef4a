package llm

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/session"
)

// AnthropicLLMClient is a client for the Anthropic API.
type AnthropicLLMClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicLLMClient creates a new AnthropicLLMClient.
// It requires the ANTHROPIC_API_KEY environment variable to be set.
func NewAnthropicLLMClient(ctx context.Context, modelName string) (*AnthropicLLMClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicLLMClient{
		client: &client,
		model:  modelName,
	}, nil
}

// Chat sends a chat request to the Anthropic API.
func (a *AnthropicLLMClient) Chat(ctx context.Context, messages []session.Message) (*session.Message, error) {
	anthropicMessages, systemPrompt := convertMessagesToAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		Messages:  anthropicMessages,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send message to Anthropic")
	}

	return processAnthropicResponse(resp), nil
}

func convertMessagesToAnthropicMessages(messages []session.Message) ([]anthropic.MessageParam, string) {
	systemPrompt, rest := splitSystem(messages)

	var anthropicMessages []anthropic.MessageParam
	for _, msg := range rest {
		switch msg.Role {
		case "assistant":
			if msg.Content == "" {
				continue
			}
			anthropicMessages = append(anthropicMessages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{Text: msg.Content},
				}},
			})
		default:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}
	return anthropicMessages, systemPrompt
}

func processAnthropicResponse(resp *anthropic.Message) *session.Message {
	var responseContent string
	for _, content := range resp.Content {
		if c, ok := content.AsAny().(anthropic.TextBlock); ok {
			responseContent += c.Text
		}
	}
	return &session.Message{Role: "assistant", Content: responseContent}
}
