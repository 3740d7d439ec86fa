package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/socs4ai/standards-tracker/internal/extract"
)

// Client implements extract.FieldExtractor on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini-backed extractor.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model, logger: logger}, nil
}

// Close cleans up resources.
func (c *Client) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

func (c *Client) ExtractFields(ctx context.Context, req extract.ExtractRequest) (map[string]string, []byte, error) {
	start := time.Now()

	schema := extract.BuildFieldsJSONSchema(req.Fields)
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extract.BuildSystemPrompt(req.Fields))},
	}

	user := extract.BuildUserPrompt(req) + "\n\nReturn ONLY JSON that matches this JSON Schema:\n" + mustJSON(schema)
	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, nil, classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil, extract.NewGatewayError(extract.KindBadResponse, "no candidates in gemini response", nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	content := []byte(strings.TrimSpace(b.String()))
	if len(content) == 0 {
		return nil, nil, extract.NewGatewayError(extract.KindBadResponse, "empty gemini response", nil)
	}

	if err := extract.ValidateJSONAgainstSchema(schema, content); err != nil {
		return nil, content, extract.NewGatewayError(extract.KindBadResponse, "schema validation failed", err)
	}
	out, err := extract.DecodeFieldMap(content)
	if err != nil {
		return nil, content, extract.NewGatewayError(extract.KindBadResponse, "decode field map", err)
	}

	c.logger.Info("llm.extract.ok",
		"model", c.model,
		"fields_found", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// classify maps Gemini API errors onto the gateway error taxonomy.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return extract.NewGatewayError(extract.KindForHTTPStatus(gerr.Code), "gemini generation failed", err)
	}
	// Timeouts and connection failures are transient.
	return extract.NewGatewayError(extract.KindTransport, "gemini generation failed", err)
}
