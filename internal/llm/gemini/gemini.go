// Package gemini implements the llm capabilities on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
)

// Config holds the Gemini client settings
type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	EmbedDimension int
	ChatModel      string
	Temperature    float32
	Timeout        time.Duration
	BatchSize      int
}

// Client implements llm.Embedder and llm.Generator. It is safe for
// concurrent use.
type Client struct {
	cfg    Config
	client *genai.Client
	logger *zap.Logger
}

var (
	_ llm.Embedder  = (*Client)(nil)
	_ llm.Generator = (*Client)(nil)
)

// New creates a Gemini client
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Info("Gemini client initialized",
		zap.String("embedding_model", cfg.EmbeddingModel),
		zap.String("chat_model", cfg.ChatModel),
		zap.Duration("timeout", cfg.Timeout),
	)

	return &Client{cfg: cfg, client: client, logger: logger}, nil
}

// Embed embeds texts in batches of at most BatchSize.
func (c *Client) Embed(ctx context.Context, texts []string, task llm.EmbedTask) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embedCfg := &genai.EmbedContentConfig{TaskType: string(task)}
	if c.cfg.EmbedDimension > 0 {
		dim := int32(c.cfg.EmbedDimension)
		embedCfg.OutputDimensionality = &dim
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}

		batch, err := c.embedBatch(ctx, contents, embedCfg)
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (c *Client) embedBatch(ctx context.Context, contents []*genai.Content, embedCfg *genai.EmbedContentConfig) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := c.client.Models.EmbedContent(ctx, c.cfg.EmbeddingModel, contents, embedCfg)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", classify(err))
	}

	vectors := make([][]float32, 0, len(contents))
	if result != nil {
		for _, e := range result.Embeddings {
			if e == nil || len(e.Values) == 0 {
				return nil, errors.New("empty embedding returned from API")
			}
			vectors = append(vectors, e.Values)
		}
	}

	c.logger.Debug("Embedding batch completed",
		zap.Int("texts", len(contents)),
		zap.Duration("duration", time.Since(start)),
	)
	return vectors, nil
}

// Generate runs the chat model on prompt. A reply without text, such as a
// blocked prompt, yields "" and a nil error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.ChatModel, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", classify(err))
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}

	if out.Len() == 0 {
		c.logger.Warn("Chat model returned no text", emptyReplyFields(resp)...)
		return "", nil
	}

	c.logger.Debug("Chat generation completed",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", out.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return out.String(), nil
}

func emptyReplyFields(resp *genai.GenerateContentResponse) []zap.Field {
	fields := []zap.Field{}
	if resp == nil {
		return fields
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		fields = append(fields, zap.String("block_reason", string(resp.PromptFeedback.BlockReason)))
	}
	fields = append(fields, zap.Int("candidates", len(resp.Candidates)))
	for _, candidate := range resp.Candidates {
		if candidate != nil && candidate.FinishReason != "" {
			fields = append(fields, zap.String("finish_reason", string(candidate.FinishReason)))
			break
		}
	}
	return fields
}

// apiError carries the classification of a Gemini API failure.
type apiError struct {
	kind domain.ErrorKind
	err  error
}

func (e *apiError) Error() string          { return e.err.Error() }
func (e *apiError) Unwrap() error          { return e.err }
func (e *apiError) Kind() domain.ErrorKind { return e.kind }

func classify(err error) error {
	var ae genai.APIError
	if !errors.As(err, &ae) {
		return err
	}
	return &apiError{kind: kindForStatus(ae.Code), err: err}
}

func kindForStatus(code int) domain.ErrorKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return domain.KindAuth
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return domain.KindTimeout
	case code == http.StatusTooManyRequests, code >= 500:
		return domain.KindUnavailable
	}
	return domain.KindUnknown
}
