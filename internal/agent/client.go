package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

type Client struct {
	llm llms.Model
	log logging.Logger
	to  time.Duration
}

func NewClient(cfg Config, log logging.Logger) (*Client, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("chat model name is required")
	}
	opts := []ollama.Option{
		ollama.WithModel(cfg.ModelName),
		ollama.WithKeepAlive("5m"),
	}
	if trimmed := strings.TrimSpace(cfg.OllamaURL); trimmed != "" {
		opts = append(opts, ollama.WithServerURL(trimmed))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return newClient(llm, cfg.CallTimeout, log), nil
}

func newClient(llm llms.Model, timeout time.Duration, log logging.Logger) *Client {
	return &Client{llm: llm, log: log.WithName("agent"), to: timeout}
}

// Ask sends the instructions as the system message and the article as the
// user message, returning the first choice.
func (c *Client) Ask(ctx context.Context, instructions, article string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, article),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", c.annotateError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	c.log.Debug("agent replied", "elapsed", time.Since(start).String(), "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.to <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.to)
}

func (c *Client) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llm call timed out after %s: %w", c.to, err)
	}
	return err
}
