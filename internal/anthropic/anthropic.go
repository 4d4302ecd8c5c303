package anthropic

import (
	"context"
	"fmt"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
)

// defaultMaxTokens is required by the Messages API
const defaultMaxTokens = 4096

// Anthropic is a provider for Anthropic Claude models
type Anthropic struct {
	client anthropicclient.Client
}

// New returns a new Anthropic provider
func New(apiKey string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropicclient.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)
	return &Anthropic{client: client}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

// GenerateText generates text for the given prompt using the Messages API.
// There is no JSON mode; the prompt carries the output format.
func (a *Anthropic) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	msg, err := a.client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:       anthropicclient.Model(config.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropicclient.Float(config.Temperature),
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(config.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty content returned from Anthropic")
	}

	return sb.String(), nil
}
