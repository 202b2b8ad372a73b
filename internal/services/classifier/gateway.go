package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultTimeout = 10 * time.Second

	sentimentModel = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	toxicityModel  = "unitary/toxic-bert"
	spamModel      = "huggingface/spam-detection"
)

// Config carries the classifier endpoint settings. The auth token is
// optional: the capability works unauthenticated with lower rate limits.
type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Gateway issues sentiment, toxicity and spam classification requests against
// an HF-inference-style API. Every failure mode is absorbed into a fallback
// signal: Classify never returns an error and never panics outward.
type Gateway struct {
	client *resty.Client
	logger *zap.Logger
}

func NewGateway(cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(cfg.AuthToken) != "" {
		client.SetAuthToken(strings.TrimSpace(cfg.AuthToken))
	}

	return &Gateway{client: client, logger: logger}
}

// Classify runs the three classifiers concurrently and joins their results.
// One classifier's unavailability never aborts the others; the barrier waits
// for all three branches or their fallbacks.
func (g *Gateway) Classify(ctx context.Context, text string) (bundle Bundle) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("classification panicked, returning neutral bundle", zap.Any("panic", r))
			bundle = NeutralBundle()
		}
	}()

	var (
		wg        sync.WaitGroup
		sentiment Signal
		toxicity  Signal
		spam      Signal
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		sentiment = g.classifySentiment(ctx, text)
	}()
	go func() {
		defer wg.Done()
		toxicity = g.classifyToxicity(ctx, text)
	}()
	go func() {
		defer wg.Done()
		spam = g.classifySpam(ctx, text)
	}()
	wg.Wait()

	return NewBundle(sentiment, toxicity, spam)
}

func (g *Gateway) classifySentiment(ctx context.Context, text string) Signal {
	dist, err := g.requestDistribution(ctx, sentimentModel, text)
	if err != nil {
		g.logger.Warn("sentiment classifier unavailable", zap.Error(err))
		return errorSignal()
	}
	return SentimentSignal(dist)
}

func (g *Gateway) classifyToxicity(ctx context.Context, text string) Signal {
	dist, err := g.requestDistribution(ctx, toxicityModel, text)
	if err != nil {
		g.logger.Warn("toxicity classifier unavailable", zap.Error(err))
		return errorSignal()
	}
	return ToxicitySignal(dist)
}

func (g *Gateway) classifySpam(ctx context.Context, text string) Signal {
	dist, err := g.requestDistribution(ctx, spamModel, text)
	if err != nil {
		g.logger.Warn("spam classifier unavailable, using local heuristics", zap.Error(err))
		return HeuristicSpamSignal(text)
	}
	return SpamSignal(dist)
}

func (g *Gateway) requestDistribution(ctx context.Context, model, text string) ([]LabelScore, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"inputs": text}).
		Post("/" + model)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", model, err)
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("call %s: status %d", model, resp.StatusCode())
	}

	return parseDistribution(resp.Body())
}

// parseDistribution accepts both the nested [[{label,score}]] shape the
// inference API returns for single inputs and a flat [{label,score}] list.
func parseDistribution(body []byte) ([]LabelScore, error) {
	var nested [][]LabelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, fmt.Errorf("empty label distribution")
		}
		return nested[0], nil
	}

	var flat []LabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("unexpected distribution shape: %w", err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("empty label distribution")
	}
	return flat, nil
}
