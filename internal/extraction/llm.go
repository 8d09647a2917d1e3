package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Message is one turn of a conversation sent to the model.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// LLMCaller is the narrow request/response surface of the language model.
type LLMCaller interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCaller calls the Messages API directly or through a proxy.
type AnthropicCaller struct {
	messages  AnthropicMessager
	model     string
	maxTokens int64
}

// NewAnthropicCaller builds a caller from config. A proxy URL replaces the
// API base URL; the key may then be empty.
func NewAnthropicCaller(cfg config.LLMConfig) (*AnthropicCaller, error) {
	if cfg.APIKey == "" && cfg.ProxyURL == "" {
		return nil, errors.New("ANTHROPIC_API_KEY or LLM_PROXY_URL not configured")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.ProxyURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.ProxyURL))
	}
	c := anthropic.NewClient(opts...)
	return NewAnthropicCallerWith(&c.Messages, cfg.Model, cfg.MaxTokens), nil
}

func NewAnthropicCallerWith(messages AnthropicMessager, model string, maxTokens int) *AnthropicCaller {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicCaller{messages: messages, model: model, maxTokens: int64(maxTokens)}
}

func (a *AnthropicCaller) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Messages:    make([]anthropic.MessageParam, 0, len(messages)),
		Temperature: anthropic.Float(0.2),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		block := anthropic.NewTextBlock(m.Text)
		if m.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	resp, err := a.messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
