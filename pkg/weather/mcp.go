package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"ai-travelplanner-be/internal/pkg/logger"
)

const defaultMCPTimeout = 15 * time.Second

// MCPProvider calls an MCP-style weather tool endpoint. The endpoint
// receives a tool invocation envelope and answers with a free-form
// context string under "context" or "result".
type MCPProvider struct {
	endpoint string
	token    string
	client   *http.Client
	log      logger.ILogger
}

func NewMCPProvider(endpoint, token string, timeoutSeconds int, log logger.ILogger) *MCPProvider {
	timeout := defaultMCPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &MCPProvider{
		endpoint: strings.TrimSpace(endpoint),
		token:    strings.TrimSpace(token),
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type mcpToolRequest struct {
	Tool  string       `json:"tool"`
	Input mcpToolInput `json:"input"`
}

type mcpToolInput struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	Days        int    `json:"days"`
}

type mcpToolResponse struct {
	Context string `json:"context"`
	Result  string `json:"result"`
}

func (p *MCPProvider) Forecast(ctx context.Context, destination, startDate string, days int) (string, error) {
	if p.endpoint == "" {
		return "", fmt.Errorf("mcp weather endpoint not configured")
	}

	payload := mcpToolRequest{
		Tool: "weather",
		Input: mcpToolInput{
			Destination: destination,
			StartDate:   NormalizeDate(startDate, time.Now()),
			Days:        days,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode mcp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mcp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		if isASCII(p.token) {
			req.Header.Set("Authorization", "Bearer "+p.token)
		} else if p.log != nil {
			p.log.Warn("weather.mcp", "mcp token contains non-ascii characters, sending request without it", nil)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mcp weather call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read mcp response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mcp weather endpoint returned status %d", resp.StatusCode)
	}

	var decoded mcpToolResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode mcp response: %w", err)
	}
	text := decoded.Context
	if text == "" {
		text = decoded.Result
	}
	return strings.TrimSpace(text), nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
