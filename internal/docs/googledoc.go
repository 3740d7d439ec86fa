package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	docsapi "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// GoogleDocFetcher reads a Google Doc's body as plain text via the Docs
// API, walking paragraphs, tables and table-of-contents elements.
type GoogleDocFetcher struct {
	svc    *docsapi.Service
	logger *slog.Logger
}

// NewGoogleDocFetcher builds the Docs service from service-account
// credentials (the same JSON file the Sheets store uses).
func NewGoogleDocFetcher(ctx context.Context, credentialsPath string, logger *slog.Logger) (*GoogleDocFetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.ClientOption{option.WithScopes(docsapi.DocumentsReadonlyScope)}
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	svc, err := docsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return &GoogleDocFetcher{svc: svc, logger: logger}, nil
}

func (f *GoogleDocFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	docID, err := ExtractDocID(ref)
	if err != nil {
		return "", err
	}
	return f.FetchByID(ctx, docID)
}

// FetchByID reads a document's body by its Drive file ID.
func (f *GoogleDocFetcher) FetchByID(ctx context.Context, docID string) (string, error) {
	start := time.Now()

	doc, err := f.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get document %s: %w", docID, err)
	}

	var b strings.Builder
	if doc.Body != nil {
		writeElements(&b, doc.Body.Content)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document %s has no readable content", docID)
	}

	f.logger.Debug("docs.fetch.ok",
		"doc_id", docID,
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func writeElements(b *strings.Builder, elements []*docsapi.StructuralElement) {
	for _, el := range elements {
		switch {
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					b.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					writeElements(b, cell.Content)
				}
			}
		case el.TableOfContents != nil:
			writeElements(b, el.TableOfContents.Content)
		}
	}
}
