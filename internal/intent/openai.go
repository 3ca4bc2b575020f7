// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package intent

import (
	"context"
	"encoding/json"
	"math"
	"net/http"

	"go.astrophena.name/nooti/internal/hours"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You convert short cafe owner messages into one structured command.
Return ONLY JSON matching one of these shapes:
{"type":"set_hours","hours":[{"days":"Mon–Fri","open":"09:00","close":"19:00"},{"days":"Sun","closed":true}]}
{"type":"set_address","address":"45 Vinyl Ave","city":"Helsinki"}
{"type":"set_name","name":"Nooti Coffee"}
{"type":"set_bg","url":"https://..."}
{"type":"set_note","note":"Live jazz on Friday!"}
{"type":"push"}
Days are Mon, Tue, Wed, Thu, Fri, Sat, Sun; ranges like "Mon–Fri". Times are 24-hour HH:MM.
If the user message isn't about these, return {"type":"unknown"}.`

// OpenAI is a [Classifier] that delegates classification to an OpenAI chat
// model. The current hours are passed along so messages like "open an hour
// later on weekdays" can be resolved.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI returns an OpenAI classifier using the given API key. A non-nil
// httpc overrides the HTTP client used for API calls.
func NewOpenAI(apiKey string, httpc *http.Client) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if httpc != nil {
		cfg.HTTPClient = httpc
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4oMini,
	}
}

// Classify implements the [Classifier] interface. A malformed model response
// degrades to [Unknown] instead of an error.
func (o *OpenAI) Classify(ctx context.Context, text string, current []hours.DayHours) (Intent, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if len(current) > 0 {
		cur, err := json.Marshal(current)
		if err != nil {
			return Unknown, err
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Current hours: " + string(cur),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		// A literal 0 is dropped by the client's omitempty; this is the smallest
		// value it still sends.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Unknown, err
	}
	if len(resp.Choices) == 0 {
		return Unknown, nil
	}

	var in Intent
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &in); err != nil {
		return Unknown, nil
	}
	switch in.Type {
	case TypeSetHours, TypeSetAddress, TypeSetName, TypeSetBackground, TypeSetNote, TypePush:
		return in, nil
	}
	return Unknown, nil
}
