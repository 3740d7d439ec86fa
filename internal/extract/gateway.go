package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/socs4ai/standards-tracker/internal/docs"
)

// Gateway is the document extractor the orchestrator talks to: fetch the
// document, run the field extractor backend, hand back the field map.
// Stateless per call.
type Gateway struct {
	fetcher   docs.Fetcher
	extractor FieldExtractor
	logger    *slog.Logger
}

func NewGateway(fetcher docs.Fetcher, extractor FieldExtractor, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{fetcher: fetcher, extractor: extractor, logger: logger}
}

// Extract fetches the referenced document and extracts the named fields.
func (g *Gateway) Extract(ctx context.Context, ref string, fields []string) (map[string]string, error) {
	start := time.Now()

	text, err := g.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, classifyFetchErr(err)
	}

	out, raw, err := g.extractor.ExtractFields(ctx, ExtractRequest{
		DocumentRef:  ref,
		DocumentText: text,
		Fields:       fields,
	})
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}

	g.logger.Info("extract.ok",
		"ref", ref,
		"doc_bytes", len(text),
		"fields_found", len(out),
		"raw_bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// classifyFetchErr maps document fetch failures onto the gateway error
// taxonomy. Missing or forbidden documents are permanent for a given item;
// only upstream outages, rate limits and network failures are transient.
func classifyFetchErr(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return NewGatewayError(KindForHTTPStatus(gerr.Code), "fetch document", err)
	}
	var serr *docs.StatusError
	if errors.As(err, &serr) {
		return NewGatewayError(KindForHTTPStatus(serr.Code), "fetch document", err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return NewGatewayError(KindTransport, "fetch document", err)
	}
	return NewGatewayError(KindNotFound, "fetch document", err)
}
