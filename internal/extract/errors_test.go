package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socs4ai/standards-tracker/internal/docs"
)

func TestGatewayErrorRetryable(t *testing.T) {
	assert.True(t, NewGatewayError(KindRateLimit, "", nil).Retryable())
	assert.True(t, NewGatewayError(KindTransport, "", nil).Retryable())
	assert.False(t, NewGatewayError(KindAuth, "", nil).Retryable())
	assert.False(t, NewGatewayError(KindPermission, "", nil).Retryable())
	assert.False(t, NewGatewayError(KindNotFound, "", nil).Retryable())
	assert.False(t, NewGatewayError(KindBadRequest, "", nil).Retryable())
	assert.False(t, NewGatewayError(KindBadResponse, "", nil).Retryable())

	assert.True(t, IsRetryable(NewGatewayError(KindRateLimit, "", nil)))
	assert.False(t, IsRetryable(assert.AnError))
}

func TestKindForHTTPStatus(t *testing.T) {
	assert.Equal(t, KindAuth, KindForHTTPStatus(401))
	assert.Equal(t, KindPermission, KindForHTTPStatus(403))
	assert.Equal(t, KindNotFound, KindForHTTPStatus(404))
	assert.Equal(t, KindRateLimit, KindForHTTPStatus(429))
	assert.Equal(t, KindTransport, KindForHTTPStatus(500))
	assert.Equal(t, KindTransport, KindForHTTPStatus(503))
	assert.Equal(t, KindBadRequest, KindForHTTPStatus(400))
}

func TestGatewayClassifiesFetchFailures(t *testing.T) {
	forbidden := stubFetcher{err: &docs.StatusError{URL: "http://x", Code: 403}}
	gw := NewGateway(forbidden, &stubExtractor{}, nil)
	_, err := gw.Extract(context.Background(), "http://x", []string{"standards"})
	require.Error(t, err)
	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindPermission, ge.Kind)
	assert.False(t, ge.Retryable())

	flaky := stubFetcher{err: &docs.StatusError{URL: "http://x", Code: 502}}
	gw = NewGateway(flaky, &stubExtractor{}, nil)
	_, err = gw.Extract(context.Background(), "http://x", []string{"standards"})
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindTransport, ge.Kind)
	assert.True(t, ge.Retryable())
}
