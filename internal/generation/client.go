// Package generation calls the OpenAI-compatible endpoint that produces
// agent replies. Knowledge scope rides along as request metadata so a RAG
// gateway can ground the completion.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dojotek/chatbot/internal/config"
)

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything the endpoint needs to answer one inbound
// message.
type Request struct {
	SystemPrompt     string
	KnowledgeID      string
	KnowledgeFileIDs []string
	History          []Message
	Query            string
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	logger  *slog.Logger
	http    *http.Client
}

func NewClient(log *slog.Logger, cfg config.GenerationConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("generation client: base url is required")
	}
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  log.With(slog.String("client", "generation")),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate produces the reply text for one query. History arrives in
// chronological order with stored message types; roles are mapped to the
// wire format here.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, entry := range req.History {
		messages = append(messages, chatMessage{Role: wireRole(entry.Role), Content: entry.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Query})

	var metadata map[string]any
	if req.KnowledgeID != "" {
		metadata = map[string]any{
			"knowledge_id":       req.KnowledgeID,
			"knowledge_file_ids": req.KnowledgeFileIDs,
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Metadata: metadata,
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generation error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("generation response missing content")
	}
	return parsed.Choices[0].Message.Content, nil
}

func wireRole(role string) string {
	switch role {
	case "ai", "assistant":
		return "assistant"
	case "system":
		return "system"
	default:
		return "user"
	}
}
