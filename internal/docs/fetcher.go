// Package docs fetches document content for the extraction gateway. A
// document reference is an opaque locator: a Google Docs URL, a plain HTTP
// URL, or a local file path.
package docs

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Fetcher resolves a document reference to its plain-text content.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// docIDPatterns matches the Google document URL shapes the tracker links
// use: /document/d/<id>, /d/<id> and id=<id>.
var docIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
}

// ExtractDocID pulls the document ID out of a Google Docs URL.
func ExtractDocID(url string) (string, error) {
	for _, p := range docIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("could not extract document id from url: %s", url)
}

// Router dispatches to a concrete fetcher based on the reference shape.
type Router struct {
	Folder    Fetcher // Drive folder links, resolved to the plan inside; may be nil
	GoogleDoc Fetcher // docs.google.com links; may be nil
	HTTP      Fetcher // other http(s) URLs
	File      Fetcher // everything else, treated as a local path
}

func (r *Router) Fetch(ctx context.Context, ref string) (string, error) {
	switch {
	case IsFolderRef(ref):
		if r.Folder == nil {
			return "", fmt.Errorf("no drive folder fetcher configured for %s", ref)
		}
		return r.Folder.Fetch(ctx, ref)
	case strings.Contains(ref, "docs.google.com") || strings.Contains(ref, "drive.google.com"):
		if r.GoogleDoc == nil {
			return "", fmt.Errorf("no google docs fetcher configured for %s", ref)
		}
		return r.GoogleDoc.Fetch(ctx, ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		if r.HTTP == nil {
			return "", fmt.Errorf("no http fetcher configured for %s", ref)
		}
		return r.HTTP.Fetch(ctx, ref)
	default:
		if r.File == nil {
			return "", fmt.Errorf("no file fetcher configured for %s", ref)
		}
		return r.File.Fetch(ctx, ref)
	}
}
