package llm

import (
	"context"
)

// Message is a chat turn in a provider-agnostic shape.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Option tunes a single call without widening the interface.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract every model backend satisfies.
type LLMProvider interface {
	// Chat sends a full history and returns the assistant reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is the single-prompt convenience form of Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
