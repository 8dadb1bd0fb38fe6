package recipe

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Fallback strings shown to the user in place of a recipe. They are
// displayed identically to a real recipe, so they read like one.
const (
	FallbackFailed  = "Failed to generate recipe. Please try again."
	FallbackNoReply = "No recipe generated."
)

// Requester translates an ingredient list into a natural-language recipe via
// an OpenAI-compatible chat-completion endpoint. The upstream credential
// stays server-side; clients only ever reach this through the same-origin
// endpoint.
type Requester struct {
	client  *openai.LLM
	model   string
	timeout time.Duration
}

// Options configures the upstream text-generation endpoint.
type Options struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// NewRequester creates a requester against an OpenAI-compatible API.
func NewRequester(opts Options) (*Requester, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("recipe API key is required")
	}

	clientOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe client: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Requester{client: client, model: opts.Model, timeout: timeout}, nil
}

// RequestRecipe joins the item names with ", " and sends a single
// request/response exchange to the text-generation endpoint. An empty name
// list still issues a request. Failures never escape this boundary: upstream
// errors log and return a fixed fallback string, and a response with no
// generated choice returns a fixed no-recipe string.
func (r *Requester) RequestRecipe(ctx context.Context, itemNames []string) string {
	prompt := fmt.Sprintf("Generate a recipe using the following ingredients: %s",
		strings.Join(itemNames, ", "))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := r.client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}, llms.WithModel(r.model))
	if err != nil {
		log.Printf("Error generating recipe: %v", err)
		return FallbackFailed
	}

	if response == nil || len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return FallbackNoReply
	}

	return response.Choices[0].Content
}
