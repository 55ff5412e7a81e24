package provider

import (
	"context"
	"strings"
)

func init() {
	RegisterProvider("echo", ProviderRegistration{
		Models: []string{"echo"},
		Constructor: func(Settings) Provider {
			return EchoProvider{}
		},
	})
}

// EchoProvider replies with the last user message. It needs no network and
// backs offline use and tests.
type EchoProvider struct{}

func (EchoProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			last = req.Messages[i].Content
			break
		}
	}
	n := len(strings.Fields(last))
	return &Response{
		Content: last,
		Usage:   Usage{PromptTokens: n, CompletionTokens: n, TotalTokens: 2 * n},
	}, nil
}
