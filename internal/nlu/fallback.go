// Package nlu answers utterances no phrase rule matched, by asking an LLM.
// It is strictly optional; without an API key the assistant falls back to a
// canned response instead.
package nlu

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const systemPrompt = `You are Nova, a friendly desktop voice assistant.
Answer in one or two short spoken sentences. No markdown, no lists.
If the user asks you to control the computer, say which spoken command would do it.`

// Fallback wraps the chat client used for free-form answers.
type Fallback struct {
	client openai.Client
	model  string
}

// NewFallback builds the client. httpClient may carry a SOCKS transport; nil
// means the default transport.
func NewFallback(apiKey, model string, httpClient *http.Client) *Fallback {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if model == "" {
		model = openai.ChatModelGPT5Nano
	}
	return &Fallback{client: openai.NewClient(opts...), model: model}
}

// Answer returns a short conversational reply to the transcript.
func (f *Fallback) Answer(ctx context.Context, transcript string) (string, error) {
	resp, err := f.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(transcript),
		},
		Model: f.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
