package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	config "github.com/pagesmith/pagesmith/configs"
	"github.com/pagesmith/pagesmith/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// requiredHTMLTags must all appear (case-insensitively) in generated output
// before it is handed back for caching.
var requiredHTMLTags = []string{"<html", "<head", "<body", "</html>"}

// Generator produces HTML pages by prompting an Ollama-compatible LLM
// server with the requested URL path and the available content tree.
// Validation of the generated document happens here, before the page is
// ever offered to the cache.
type Generator struct {
	client      *http.Client
	serverURL   string
	model       string
	temperature float64
	maxTokens   int
	retries     int
	contentRoot string
	logger      *logrus.Logger
}

var _ ports.PageGenerator = (*Generator)(nil)

// NewGenerator creates the generation engine client. The HTTP client's
// timeout bounds every model call.
func NewGenerator(cfg *config.LLMConfig, contentRoot string, logger *logrus.Logger) *Generator {
	retries := cfg.RetryAttempts
	if retries < 1 {
		retries = 1
	}
	return &Generator{
		client:      &http.Client{Timeout: cfg.Timeout},
		serverURL:   strings.TrimRight(cfg.ServerURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retries:     retries,
		contentRoot: contentRoot,
		logger:      logger,
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	System  string                 `json:"system"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GeneratePage prompts the model for a complete HTML document for urlPath.
// Invalid or truncated output is retried up to the configured attempt
// count; a final failure is returned as an error for the HTTP layer to map
// to a 503.
func (g *Generator) GeneratePage(ctx context.Context, urlPath string) (string, error) {
	jobID := uuid.New()
	prompt := fmt.Sprintf(pagePromptTemplate, urlPath, contentTree(g.contentRoot), urlPath, g.contentRoot)

	var lastErr error
	for attempt := 1; attempt <= g.retries; attempt++ {
		if g.logger != nil {
			g.logger.WithFields(logrus.Fields{"job_id": jobID, "url": urlPath, "attempt": attempt}).Info("generating page")
		}

		html, err := g.generate(ctx, prompt)
		if err == nil {
			html = cleanHTMLResponse(html)
			if validateHTML(html) {
				if g.logger != nil {
					g.logger.WithFields(logrus.Fields{"job_id": jobID, "url": urlPath, "bytes": len(html)}).Info("page generated")
				}
				return html, nil
			}
			err = fmt.Errorf("model returned incomplete HTML document")
		}

		lastErr = err
		if g.logger != nil {
			g.logger.WithFields(logrus.Fields{"job_id": jobID, "url": urlPath, "attempt": attempt}).
				WithError(err).Warn("page generation attempt failed")
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("failed to generate page for %s: %w", urlPath, lastErr)
}

// ListPages implements ports.PageGenerator content discovery over the
// engine's content root.
func (g *Generator) ListPages(ctx context.Context) (map[string]string, error) {
	return listPages(g.contentRoot)
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  g.model,
		System: systemPrompt,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": g.temperature,
			"num_predict": g.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.serverURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}
	if gr.Response == "" {
		return "", fmt.Errorf("generation server returned an empty response")
	}
	return gr.Response, nil
}

// cleanHTMLResponse strips markdown code fences the model sometimes wraps
// its output in.
func cleanHTMLResponse(response string) string {
	if idx := strings.Index(response, "```html"); idx >= 0 {
		response = response[idx+len("```html"):]
		if end := strings.Index(response, "```"); end >= 0 {
			response = response[:end]
		}
	} else if strings.Contains(response, "```") {
		parts := strings.Split(response, "```")
		if len(parts) >= 3 {
			response = parts[1]
		}
	}
	return strings.TrimSpace(response)
}

// validateHTML checks the structural markers of a complete document.
func validateHTML(html string) bool {
	lower := strings.ToLower(html)
	for _, tag := range requiredHTMLTags {
		if !strings.Contains(lower, tag) {
			return false
		}
	}
	return true
}
