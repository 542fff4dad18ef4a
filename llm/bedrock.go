package llm

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/session"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// BedrockLLMClient is a client for the Anthropic models on AWS Bedrock.
type BedrockLLMClient struct {
	client  *bedrockruntime.Client
	modelID string
}

// NewBedrockLLMClient creates a new BedrockLLMClient.
// It uses the default AWS credential chain.
func NewBedrockLLMClient(ctx context.Context, modelID string) (*BedrockLLMClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load AWS config")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	return &BedrockLLMClient{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

// Chat sends a chat request to the Anthropic model via AWS Bedrock.
func (b *BedrockLLMClient) Chat(ctx context.Context, messages []session.Message) (*session.Message, error) {
	anthropicMessages, systemPrompt := convertMessagesToAnthropicFormat(messages)

	requestBody, err := createAnthropicRequest(anthropicMessages, systemPrompt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create Anthropic request")
	}

	resp, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to invoke Bedrock model")
	}

	return processBedrockResponse(resp.Body)
}

func convertMessagesToAnthropicFormat(messages []session.Message) ([]map[string]interface{}, string) {
	systemPrompt, rest := splitSystem(messages)

	var anthropicMessages []map[string]interface{}
	for _, msg := range rest {
		role := "user"
		if msg.Role == "assistant" {
			if msg.Content == "" {
				continue
			}
			role = "assistant"
		}
		anthropicMessages = append(anthropicMessages, map[string]interface{}{
			"role": role,
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": msg.Content,
				},
			},
		})
	}
	return anthropicMessages, systemPrompt
}

func createAnthropicRequest(messages []map[string]interface{}, systemPrompt string) ([]byte, error) {
	request := map[string]interface{}{
		"anthropic_version": bedrockAnthropicVersion,
		"max_tokens":        4096,
		"messages":          messages,
	}
	if systemPrompt != "" {
		request["system"] = systemPrompt
	}
	return json.Marshal(request)
}

func processBedrockResponse(body []byte) (*session.Message, error) {
	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal Bedrock response")
	}
	if response.Error != nil {
		return nil, errors.New("Bedrock API error: %v", response.Error)
	}

	var responseContent string
	for _, item := range response.Content {
		if item.Type == "text" {
			responseContent += item.Text
		}
	}
	return &session.Message{Role: "assistant", Content: responseContent}, nil
}
