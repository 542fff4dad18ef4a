package llm

import (
	"context"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/session"
	"google.golang.org/api/option"
)

// GeminiLLMClient is a client for the Google Gemini API.
type GeminiLLMClient struct {
	model *genai.GenerativeModel
}

// NewGeminiLLMClient creates a new GeminiLLMClient.
// It requires the GEMINI_API_KEY environment variable to be set.
func NewGeminiLLMClient(ctx context.Context, modelName string) (*GeminiLLMClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create genai client")
	}

	return &GeminiLLMClient{
		model: client.GenerativeModel(modelName),
	}, nil
}

// Chat sends a chat request to the Gemini API.
func (g *GeminiLLMClient) Chat(ctx context.Context, messages []session.Message) (*session.Message, error) {
	systemPrompt, history := convertMessagesToGeminiContent(messages)
	if len(history) == 0 {
		return nil, errors.New("no messages to send to Gemini")
	}
	if systemPrompt != "" {
		g.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	// The last message is the new prompt.
	lastMessage := history[len(history)-1]

	chatSession := g.model.StartChat()
	chatSession.History = history[:len(history)-1]
	resp, err := chatSession.SendMessage(ctx, lastMessage.Parts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send message to Gemini")
	}

	return processGeminiResponse(resp)
}

func convertMessagesToGeminiContent(messages []session.Message) (string, []*genai.Content) {
	systemPrompt, rest := splitSystem(messages)

	var contents []*genai.Content
	for _, msg := range rest {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return systemPrompt, contents
}

func processGeminiResponse(resp *genai.GenerateContentResponse) (*session.Message, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("received an empty response from Gemini")
	}

	var responseContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			responseContent += string(v)
		default:
			return nil, errors.New("unsupported part type in Gemini response: %T", v)
		}
	}

	return &session.Message{Role: "assistant", Content: responseContent}, nil
}
