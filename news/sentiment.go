package news

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

const (
	// scorerTimeout bounds every scoring call.
	scorerTimeout = time.Second * 15
	// scorerPrompt instructs the model to reply with a bare score.
	scorerPrompt = "You are a financial sentiment analyzer. Output only a single " +
		"number between -1.0 (very negative) and 1.0 (very positive). No text."
)

// ScorerConfig represents the configuration for the sentiment scorer.
type ScorerConfig struct {
	// APIKey is the OpenAI api key. Scoring is disabled when empty, every
	// call returns a neutral zero.
	APIKey string
	// Model is the chat model used for scoring.
	Model string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Scorer scores article sentiment using a chat completion model. It never
// propagates an error to the caller, any internal failure degrades to a
// neutral zero score.
type Scorer struct {
	cfg    *ScorerConfig
	client openai.Client
}

// Ensure the scorer implements the SentimentScorer interface.
var _ shared.SentimentScorer = (*Scorer)(nil)

// NewScorer initializes a new sentiment scorer.
func NewScorer(cfg *ScorerConfig) *Scorer {
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	if cfg.APIKey == "" {
		cfg.Logger.Warn().Msg("no openai api key set, sentiment scoring disabled")
	}

	return &Scorer{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
	}
}

// parseScore converts raw model output into a score clamped to [-1, 1]. Any
// unparsable output degrades to zero.
func parseScore(content string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
	if err != nil || math.IsNaN(score) {
		return 0
	}

	return math.Max(-1, math.Min(1, score))
}

// Score scores the sentiment of the provided article text in [-1, 1],
// returning a neutral zero on any internal failure.
func (s *Scorer) Score(ctx context.Context, title string, summary string) float64 {
	if s.cfg.APIKey == "" {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, scorerTimeout)
	defer cancel()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scorerPrompt),
			openai.UserMessage(fmt.Sprintf("Analyze this news: %q", title+" - "+summary)),
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		s.cfg.Logger.Error().Msgf("scoring sentiment: %v", err)
		return 0
	}

	if len(resp.Choices) == 0 {
		return 0
	}

	return parseScore(resp.Choices[0].Message.Content)
}
