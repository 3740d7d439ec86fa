package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socs4ai/standards-tracker/internal/extract"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, nil)
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestExtractFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(chatResponse(`{"standards": "CCSS.ELA.1"}`))
	}))
	defer srv.Close()

	out, raw, err := testClient(srv.URL).ExtractFields(context.Background(), extract.ExtractRequest{
		DocumentRef:  "D1",
		DocumentText: "lesson body",
		Fields:       []string{"standards"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CCSS.ELA.1", out["standards"])
	assert.JSONEq(t, `{"standards": "CCSS.ELA.1"}`, string(raw))
}

func TestExtractFieldsHTTPStatusClassification(t *testing.T) {
	cases := []struct {
		status    int
		wantKind  extract.ErrorKind
		retryable bool
	}{
		{http.StatusUnauthorized, extract.KindAuth, false},
		{http.StatusForbidden, extract.KindPermission, false},
		{http.StatusTooManyRequests, extract.KindRateLimit, true},
		{http.StatusBadGateway, extract.KindTransport, true},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream says no", tc.status)
		}))

		_, _, err := testClient(srv.URL).ExtractFields(context.Background(), extract.ExtractRequest{
			DocumentRef: "D1",
			Fields:      []string{"standards"},
		})
		srv.Close()

		require.Error(t, err, "status %d", tc.status)
		var ge *extract.GatewayError
		require.ErrorAs(t, err, &ge, "status %d", tc.status)
		assert.Equal(t, tc.wantKind, ge.Kind, "status %d", tc.status)
		assert.Equal(t, tc.retryable, ge.Retryable(), "status %d", tc.status)
	}
}

func TestExtractFieldsRejectsOffSchemaOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse(`{"publisher": "not requested"}`))
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).ExtractFields(context.Background(), extract.ExtractRequest{
		DocumentRef: "D1",
		Fields:      []string{"standards"},
	})
	require.Error(t, err)
	var ge *extract.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, extract.KindBadResponse, ge.Kind)
	assert.False(t, ge.Retryable())
}

func TestExtractFieldsNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).ExtractFields(context.Background(), extract.ExtractRequest{
		DocumentRef: "D1",
		Fields:      []string{"standards"},
	})
	require.Error(t, err)
	var ge *extract.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, extract.KindBadResponse, ge.Kind)
}
