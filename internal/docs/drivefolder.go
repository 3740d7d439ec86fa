package docs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// folderIDPattern matches the /folders/<id> segment of a Drive folder URL.
var folderIDPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9-_]+)`)

// ExtractFolderID pulls the folder ID out of a Google Drive folder URL.
// Falls back to the document patterns, which also cover /d/ and id= links.
func ExtractFolderID(url string) (string, error) {
	if m := folderIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return ExtractDocID(url)
}

// IsFolderRef reports whether a reference looks like a Drive folder link.
func IsFolderRef(ref string) bool {
	return strings.Contains(ref, "/folders/")
}

// DriveFolderFetcher resolves a Drive folder link to the lesson-plan
// document inside it and fetches that document's text. The tracker's
// document column holds folder links, not direct document links; each
// folder is expected to contain one plan following the
// "FINALIZED *LessonPlan" naming convention, with looser fallbacks for
// folders that predate it.
type DriveFolderFetcher struct {
	drive  *driveapi.Service
	docs   *GoogleDocFetcher
	logger *slog.Logger
}

// NewDriveFolderFetcher builds the Drive service from the same
// service-account credentials the document fetcher uses.
func NewDriveFolderFetcher(ctx context.Context, credentialsPath string, docs *GoogleDocFetcher, logger *slog.Logger) (*DriveFolderFetcher, error) {
	if docs == nil {
		return nil, fmt.Errorf("a google docs fetcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.ClientOption{option.WithScopes(driveapi.DriveReadonlyScope)}
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	svc, err := driveapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveFolderFetcher{drive: svc, docs: docs, logger: logger}, nil
}

func (f *DriveFolderFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	start := time.Now()
	folderID, err := ExtractFolderID(ref)
	if err != nil {
		return "", err
	}

	files, err := f.listFolder(ctx, folderID)
	if err != nil {
		return "", fmt.Errorf("list folder %s: %w", folderID, err)
	}

	doc := PickLessonDoc(files)
	if doc == nil {
		return "", fmt.Errorf("no lesson plan document among %d files in folder %s", len(files), folderID)
	}

	f.logger.Debug("docs.folder.resolved",
		"folder_id", folderID,
		"doc_id", doc.Id,
		"doc_name", doc.Name,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return f.docs.FetchByID(ctx, doc.Id)
}

// listFolder lists the folder's files; an unshared folder looks empty to
// the service account, so an empty result retries without the trashed
// filter before giving up.
func (f *DriveFolderFetcher) listFolder(ctx context.Context, folderID string) ([]*driveapi.File, error) {
	list := func(query string) ([]*driveapi.File, error) {
		resp, err := f.drive.Files.List().
			Q(query).
			Fields("files(id, name, mimeType, webViewLink)").
			PageSize(100).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return resp.Files, nil
	}

	files, err := list(fmt.Sprintf("'%s' in parents and trashed = false", folderID))
	if err != nil || len(files) > 0 {
		return files, err
	}
	return list(fmt.Sprintf("'%s' in parents", folderID))
}

// PickLessonDoc selects the lesson-plan document from a folder listing:
// a FINALIZED *LessonPlan name wins, then any lesson-plan-named document,
// then any lesson-named document, then any Google Doc or Word file.
func PickLessonDoc(files []*driveapi.File) *driveapi.File {
	for _, file := range files {
		name := strings.ToLower(file.Name)
		if strings.Contains(name, "finalized") && strings.Contains(name, "lessonplan") {
			return file
		}
	}
	for _, file := range files {
		name := strings.ToLower(file.Name)
		if strings.Contains(name, "lessonplan") ||
			strings.Contains(name, "lesson plan") ||
			strings.Contains(name, "lesson_plan") {
			if mimeMatches(file.MimeType, "document", "word", "text", "pdf") {
				return file
			}
		}
	}
	for _, file := range files {
		if strings.Contains(strings.ToLower(file.Name), "lesson") &&
			mimeMatches(file.MimeType, "document", "word", "pdf") {
			return file
		}
	}
	for _, file := range files {
		if mimeMatches(file.MimeType, "google-apps.document", "word") {
			return file
		}
	}
	return nil
}

func mimeMatches(mimeType string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(mimeType, s) {
			return true
		}
	}
	return false
}
