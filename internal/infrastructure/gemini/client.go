package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/scanify/backend/internal/domain"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// Config holds the extraction client settings
type Config struct {
	APIKey            string
	Model             string
	Temperature       float64
	RequestsPerMinute int
	MaxRetries        int
	BaseDelay         time.Duration
}

type generateFunc func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// Client extracts statement rows with the Gemini API
type Client struct {
	client      *genai.Client
	generate    generateFunc
	rateLimiter *rate.Limiter
	maxRetries  int
	baseDelay   time.Duration
	logger      *zap.Logger
}

// NewClient creates a Gemini client. Close releases the underlying connection.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key not set", domain.ErrExtractorUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.ResponseMIMEType = "application/json"

	c := newClient(model.GenerateContent, cfg, logger)
	c.client = client
	return c, nil
}

func newClient(generate generateFunc, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	return &Client{
		generate:    generate,
		rateLimiter: rate.NewLimiter(limit, 1),
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
		logger:      logger.Named("gemini"),
	}
}

// Close releases the client
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Extract sends the statement document with the product catalog and parses the rows
// the model returns. Rate-limit responses are retried with exponential backoff.
func (c *Client) Extract(ctx context.Context, doc domain.Document, catalog []domain.Product) ([]domain.ExtractedItem, error) {
	parts, err := buildParts(doc, catalog)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.generateWithRetry(ctx, doc.Name, parts)
	if err != nil {
		return nil, err
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, doc.Name, err)
	}

	items, err := ParseItems(text)
	if err != nil {
		c.logger.Warn("unparseable response", zap.String("file", doc.Name), zap.String("response", truncate(text, 500)))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, doc.Name, err)
	}

	c.logger.Info("extracted statement",
		zap.String("file", doc.Name),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)),
	)
	return items, nil
}

func (c *Client) generateWithRetry(ctx context.Context, name string, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.generate(ctx, parts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRateLimited(err) {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, err)
		}
		if attempt == c.maxRetries {
			break
		}

		wait := c.baseDelay * time.Duration(1<<attempt)
		c.logger.Warn("rate limited, retrying",
			zap.String("file", name),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", domain.ErrRateLimited, name, lastErr)
}

// isRateLimited recognises quota errors from the Gemini API
func isRateLimited(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(msg, "ResourceExhausted") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("empty content returned")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text in response")
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
