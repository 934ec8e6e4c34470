package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultGeminiURL is the base URL of the Generative Language API.
	DefaultGeminiURL = "https://generativelanguage.googleapis.com"
	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-2.0-flash"

	geminiAPIVersion = "v1beta"
)

// GeminiClient implements the Generator interface using the Gemini
// generateContent REST endpoint.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGeminiClient creates a new Gemini client.
// A zero timeout means requests are never cut short by the client.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, logger *logrus.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"model":         c.model,
		"prompt_length": len(prompt),
	}).Debug("Calling Gemini generateContent")

	reqPayload := generateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&reqPayload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, geminiAPIVersion, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"model": c.model,
		}).Error("Gemini request failed")
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Debug("Gemini request completed")

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    truncate(string(body), 500),
		}).Error("Gemini returned non-OK status")
		return "", statusError(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", genResp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("response contained no candidates")
	}

	candidate := genResp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("response contained no text (finish reason: %s)", candidate.FinishReason)
	}

	return text.String(), nil
}

// CheckHealth verifies that the API key can see the configured model.
func (c *GeminiClient) CheckHealth(ctx context.Context) error {
	c.logger.Debug("Checking Gemini health")

	url := fmt.Sprintf("%s/%s/models/%s", c.baseURL, geminiAPIVersion, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create health check request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusError(resp.StatusCode, body)
	}

	c.logger.Debug("Gemini health check passed")
	return nil
}

// statusError prefers the API's own error message over the raw body.
func statusError(code int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API error %d (%s): %s", code, apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("unexpected status %d: %s", code, truncate(string(body), 500))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
