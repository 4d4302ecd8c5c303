package openai

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
	openaiclient "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// OpenAI is a provider for OpenAI and OpenAI-compatible endpoints
type OpenAI struct {
	client openaiclient.Client
}

// New returns a new OpenAI provider. baseURL may be empty.
func New(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{client: openaiclient.NewClient(opts...)}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// GenerateText generates text for the given prompt using OpenAI chat completions
func (o *OpenAI) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	params := openaiclient.ChatCompletionNewParams{
		Model: shared.ChatModel(config.Model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.UserMessage(config.Prompt),
		},
		Temperature: openaiclient.Float(config.Temperature),
	}
	if config.MaxTokens > 0 {
		params.MaxCompletionTokens = openaiclient.Int(int64(config.MaxTokens))
	}
	// json_object mode only allows a top-level object, so arrays go out as text
	if config.Format == providers.FormatJSONObject {
		params.ResponseFormat = openaiclient.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
