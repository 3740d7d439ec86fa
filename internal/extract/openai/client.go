package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/socs4ai/standards-tracker/internal/extract"
)

// ExtractFields implements extract.FieldExtractor using text-only
// chat/completions with a JSON response format. The model output is
// validated against the field schema before it is accepted.
func (c *Client) ExtractFields(ctx context.Context, req extract.ExtractRequest) (map[string]string, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.DocumentText),
		"fields", len(req.Fields),
	)

	schema := extract.BuildFieldsJSONSchema(req.Fields)
	sys := extract.BuildSystemPrompt(req.Fields)
	user := extract.BuildUserPrompt(req)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, extract.NewGatewayError(extract.KindBadResponse, "decode openai response", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, extract.NewGatewayError(extract.KindBadResponse, "no choices in openai response", nil)
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := extract.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, content, extract.NewGatewayError(extract.KindBadResponse, "schema validation failed", err)
	}

	out, err := extract.DecodeFieldMap(content)
	if err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, content, extract.NewGatewayError(extract.KindBadResponse, "decode field map", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"fields_found", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, extract.NewGatewayError(extract.KindTransport, "openai http error", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("openai response body close error", "error", cerr)
		}
	}()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, extract.NewGatewayError(extract.KindForHTTPStatus(resp.StatusCode),
			fmt.Sprintf("openai status %d: %s", resp.StatusCode, buf.String()), nil)
	}
	return buf.Bytes(), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
