// services/assistant_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Sender string `json:"sender"` // "user" or "assistant"
	Text   string `json:"text"`
}

// AssistantService is the single call-and-parse interface over the
// generative-text provider. Handlers assemble the persona and salon context;
// the provider returns plain text.
type AssistantService interface {
	Chat(ctx context.Context, persona string, salonContext string, history []ChatMessage, message string) (string, error)
}

type OpenAIAssistant struct {
	client *openai.Client
}

func NewOpenAIAssistant(apiKey string) *OpenAIAssistant {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAssistant{client: &client}
}

func (a *OpenAIAssistant) Chat(ctx context.Context, persona string, salonContext string, history []ChatMessage, message string) (string, error) {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")

	if salonContext != "" {
		b.WriteString("Context:\n")
		b.WriteString(salonContext)
		b.WriteString("\n\n")
	}

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		// Only the recent turns matter for the reply.
		start := 0
		if len(history) > 10 {
			start = len(history) - 10
		}
		for _, m := range history[start:] {
			b.WriteString(fmt.Sprintf("%s: %s\n", m.Sender, m.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("User: ")
	b.WriteString(message)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4oMini),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(b.String()),
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}
