package tips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greensteps/internal/logger"
	"greensteps/internal/metrics"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sony/gobreaker"
)

const advisorSystemPrompt = `You are a sustainability coach. You receive a user's recent waste log, one entry per line as "date, category, quantity unit, notes".
Reply with 2 to 4 short, practical tips that would reduce this user's waste.
Write one tip per line. Do not add an introduction, headings or closing remarks.`

var ErrNoAdvice = errors.New("advisor returned no usable tips")

// Advice is the advisor's answer after normalization.
type Advice struct {
	Lines []string
	Model string
}

// Advisor produces tips from a waste log summary.
type Advisor interface {
	Advise(ctx context.Context, summary string) (Advice, error)
}

type AdvisorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIAdvisor asks an OpenAI compatible chat completion endpoint for tips.
type OpenAIAdvisor struct {
	client  openai.Client
	breaker *gobreaker.CircuitBreaker
	model   string
	timeout time.Duration
}

func NewOpenAIAdvisor(cfg AdvisorConfig) *OpenAIAdvisor {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	settings := gobreaker.Settings{
		Name:        "advisor",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &OpenAIAdvisor{
		client:  openai.NewClient(opts...),
		breaker: gobreaker.NewCircuitBreaker(settings),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func (a *OpenAIAdvisor) Advise(ctx context.Context, summary string) (Advice, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordAdvisorDuration(time.Since(start).Seconds())
	}()

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(advisorSystemPrompt),
			openai.UserMessage(summary),
		},
		Model:               a.model,
		Temperature:         openai.Float(0.7),
		MaxCompletionTokens: openai.Int(256),
	}

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return Advice{}, fmt.Errorf("advisor request: %w", err)
	}

	resp := result.(*openai.ChatCompletion)
	if len(resp.Choices) == 0 {
		return Advice{}, ErrNoAdvice
	}

	lines := Normalize(resp.Choices[0].Message.Content)
	if len(lines) < MinAdvice {
		return Advice{}, ErrNoAdvice
	}

	return Advice{Lines: lines, Model: resp.Model}, nil
}
