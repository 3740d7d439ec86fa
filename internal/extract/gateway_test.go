package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	text string
	err  error
}

func (f stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type stubExtractor struct {
	gotReq ExtractRequest
	out    map[string]string
	err    error
}

func (e *stubExtractor) ExtractFields(_ context.Context, req ExtractRequest) (map[string]string, []byte, error) {
	e.gotReq = req
	return e.out, []byte("{}"), e.err
}

func TestGatewayExtract(t *testing.T) {
	ex := &stubExtractor{out: map[string]string{"standards": "CCSS.ELA.1"}}
	gw := NewGateway(stubFetcher{text: "lesson body"}, ex, nil)

	out, err := gw.Extract(context.Background(), "D1", []string{"standards"})
	require.NoError(t, err)
	assert.Equal(t, "CCSS.ELA.1", out["standards"])
	assert.Equal(t, "D1", ex.gotReq.DocumentRef)
	assert.Equal(t, "lesson body", ex.gotReq.DocumentText)
	assert.Equal(t, []string{"standards"}, ex.gotReq.Fields)
}

func TestGatewayFetchFailure(t *testing.T) {
	gw := NewGateway(stubFetcher{err: errors.New("404")}, &stubExtractor{}, nil)
	_, err := gw.Extract(context.Background(), "D1", []string{"standards"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch document")
}

func TestGatewayExtractorFailure(t *testing.T) {
	gw := NewGateway(stubFetcher{text: "x"}, &stubExtractor{err: errors.New("model refused")}, nil)
	_, err := gw.Extract(context.Background(), "D1", []string{"standards"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract fields")
}
