// Package extractor fetches clinic web pages and reduces them to plain text.
package extractor

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// contentSelectors are tried in order; the first match wins.
var contentSelectors = []string{"main", "article", "#content"}

// Config holds extractor settings
type Config struct {
	Timeout          time.Duration
	UserAgent        string
	MinContentLength int
}

// Extractor downloads a page and returns the text of its primary content
// region.
type Extractor struct {
	client *resty.Client
	cfg    Config
	logger *zap.Logger
}

// New creates an extractor
func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Extractor{client: client, cfg: cfg, logger: logger}
}

// Extract returns the cleaned text of url, or "" when the page cannot be
// fetched, has no content region, or is too short. It never fails.
func (e *Extractor) Extract(ctx context.Context, url string) string {
	resp, err := e.client.R().SetContext(ctx).Get(url)
	if err != nil {
		e.logger.Warn("Failed to fetch page", zap.String("url", url), zap.Error(err))
		return ""
	}
	if !resp.IsSuccess() {
		e.logger.Warn("Page returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return ""
	}

	text, err := ExtractText(resp.Body())
	if err != nil {
		e.logger.Warn("Failed to parse page", zap.String("url", url), zap.Error(err))
		return ""
	}
	if text == "" {
		e.logger.Warn("No content region found", zap.String("url", url))
		return ""
	}
	if len([]rune(text)) < e.cfg.MinContentLength {
		e.logger.Warn("Page content too short, skipping",
			zap.String("url", url),
			zap.Int("length", len([]rune(text))),
		)
		return ""
	}

	e.logger.Info("Page extracted", zap.String("url", url), zap.Int("length", len(text)))
	return text
}

// ExtractText parses an HTML document and returns the whitespace-collapsed
// text of its first content region.
func ExtractText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, sel := range contentSelectors {
		region := doc.Find(sel).First()
		if region.Length() == 0 {
			continue
		}
		region.Find("script, style, noscript").Remove()
		return collapse(region.Text()), nil
	}
	return "", nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
