package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// NameExtractor pulls person names out of a free-text answer.
type NameExtractor interface {
	ExtractNames(ctx context.Context, text string) ([]string, error)
}

// RuleBasedExtractor splits on the common Japanese and ASCII separators.
// It is the fallback when no language model is configured.
type RuleBasedExtractor struct{}

func (RuleBasedExtractor) ExtractNames(_ context.Context, text string) ([]string, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '、', ',', '，', '\n', '・':
			return true
		}
		return false
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// OpenAIExtractor asks a chat model to list the names found in an answer,
// one per line. Extraction failures fall back to rule-based splitting so an
// unreachable model never blocks the interview.
type OpenAIExtractor struct {
	client   *openai.Client
	model    string
	fallback RuleBasedExtractor
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI API.
func NewOpenAIExtractor(apiKey, model string) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

const extractSystemPrompt = "あなたは相続手続きの補助AIです。ユーザーの回答から人名のみを抽出し、" +
	"1行に1名ずつ出力してください。人名以外の語や説明は出力しないでください。"

func (e *OpenAIExtractor) ExtractNames(ctx context.Context, text string) ([]string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return e.fallback.ExtractNames(ctx, text)
	}
	if len(resp.Choices) == 0 {
		return e.fallback.ExtractNames(ctx, text)
	}

	var names []string
	for _, line := range strings.Split(resp.Choices[0].Message.Content, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return e.fallback.ExtractNames(ctx, text)
	}
	return names, nil
}
