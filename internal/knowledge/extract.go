package knowledge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"

	"github.com/dojotek/chatbot/internal/config"
)

// ErrUnprocessable marks extraction failures that retrying cannot fix:
// bad URLs, client-error responses, unsupported or empty content.
var ErrUnprocessable = errors.New("knowledge file cannot be processed")

// Extractor fetches a knowledge source document and reduces it to text.
// HTML pages are stripped to their main article and converted to Markdown
// so headings and lists survive into the generation context.
type Extractor struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

func NewExtractor(log *slog.Logger, cfg config.KnowledgeConfig) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxFetchBytes
	if maxBytes <= 0 {
		maxBytes = 4 << 20
	}
	return &Extractor{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   log.With(slog.String("service", "knowledge_extractor")),
	}
}

func (e *Extractor) Extract(ctx context.Context, sourceURL, contentType string) (string, error) {
	pageURL, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return "", fmt.Errorf("unsupported source url %q: %w", sourceURL, ErrUnprocessable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.logger.Warn("close fetch body failed", slog.Any("error", err))
		}
	}()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("fetch %s: status %d: %w", pageURL, resp.StatusCode, ErrUnprocessable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	if int64(len(body)) > e.maxBytes {
		return "", fmt.Errorf("%s exceeds %d bytes: %w", pageURL, e.maxBytes, ErrUnprocessable)
	}

	effectiveType := strings.ToLower(strings.TrimSpace(contentType))
	if effectiveType == "" {
		effectiveType = strings.ToLower(resp.Header.Get("Content-Type"))
	}
	if effectiveType == "" {
		effectiveType = http.DetectContentType(body)
	}

	var text string
	switch {
	case strings.Contains(effectiveType, "text/html"), strings.Contains(effectiveType, "application/xhtml"):
		text, err = e.fromHTML(body, pageURL)
		if err != nil {
			return "", err
		}
	case strings.HasPrefix(effectiveType, "text/"), strings.Contains(effectiveType, "markdown"), strings.Contains(effectiveType, "json"):
		text = string(body)
	default:
		return "", fmt.Errorf("unsupported content type %q: %w", effectiveType, ErrUnprocessable)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text extracted from %s: %w", pageURL, ErrUnprocessable)
	}
	return text, nil
}

func (e *Extractor) fromHTML(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract article from %s: %v: %w", pageURL, err, ErrUnprocessable)
	}
	markdown, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("convert article from %s: %v: %w", pageURL, err, ErrUnprocessable)
	}
	return markdown, nil
}
