// Package anthropic implements the translation completer on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Config holds client settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL    string
	MaxRetries int
}

// Completer sends single-turn prompts and returns the text reply.
type Completer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// New creates a Completer.
func New(cfg Config, logger *slog.Logger) *Completer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Completer{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "anthropic"),
	}
}

// Complete implements translate.completer. Text blocks of the reply are
// concatenated; a reply without text yields "" and no error.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages api call: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		c.log.Warn("completion has no text",
			slog.String("model", c.model),
			slog.String("stop_reason", string(msg.StopReason)),
		)
		return "", nil
	}

	c.log.Debug("completion received",
		slog.String("model", c.model),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
		slog.Duration("duration", time.Since(start)),
	)
	return b.String(), nil
}
