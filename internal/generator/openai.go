package generator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
)

// OpenAIProvider generates answers with a single OpenAI chat completion,
// framed by an objective-specific system prompt.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a live provider using the given API key and model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, query string, objective api.Objective) (*Answer, error) {
	system, ok := systemPrompts[objective]
	if !ok {
		system = systemPrompts[api.ObjectiveInformative]
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: empty choice list")
	}

	return &Answer{
		Markdown:   resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
		Model:      resp.Model,
	}, nil
}

// systemPrompts frame the answer per objective, mirroring the specialized
// prompt templates of the discovery pipeline.
var systemPrompts = map[api.Objective]string{
	api.ObjectiveInformative: `You are a product discovery assistant. Answer the question factually,
structured in markdown with the sections: Summary, Details, Sources,
Information Gaps. Be explicit about what is not known.`,

	api.ObjectiveHypothesis: `You are a product discovery assistant evaluating a product hypothesis.
Answer in markdown with the sections: Hypothesis Summary, Strengths,
Considerations and Risks, Alignment with Guidelines, Recommendations.`,

	api.ObjectiveBenchmark: `You are a product discovery assistant comparing an idea against market
benchmarks and best practices. Answer in markdown with the sections:
Comparative Summary, Market Analysis, Alignment with Best Practices,
Differentiation Opportunities, Recommendations.`,

	api.ObjectiveObjectives: `You are a product discovery assistant assessing alignment with the
team's strategic objectives. Answer in markdown with the sections:
Alignment Summary, Analysis by Objective, Potential KPI Impact,
Strengthening Opportunities, Recommendations.`,
}
