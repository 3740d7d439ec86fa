package docs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driveapi "google.golang.org/api/drive/v3"
)

func TestExtractFolderID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://drive.google.com/drive/folders/1AbC-def_123", "1AbC-def_123"},
		{"https://drive.google.com/drive/folders/1AbC?usp=sharing", "1AbC"},
		{"https://drive.google.com/d/xyz_9", "xyz_9"},
		{"https://drive.google.com/open?id=abc123", "abc123"},
	}
	for _, tc := range cases {
		got, err := ExtractFolderID(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}

	_, err := ExtractFolderID("https://example.com/folder")
	assert.Error(t, err)
}

func TestIsFolderRef(t *testing.T) {
	assert.True(t, IsFolderRef("https://drive.google.com/drive/folders/1AbC"))
	assert.False(t, IsFolderRef("https://docs.google.com/document/d/1AbC/edit"))
	assert.False(t, IsFolderRef("/tmp/lesson.txt"))
}

const gdocMime = "application/vnd.google-apps.document"

func TestPickLessonDocPrefersFinalized(t *testing.T) {
	files := []*driveapi.File{
		{Id: "1", Name: "Lesson201_Notes", MimeType: gdocMime},
		{Id: "2", Name: "Draft_LessonPlan", MimeType: gdocMime},
		{Id: "3", Name: "FINALIZED 201_LessonPlan", MimeType: gdocMime},
	}
	picked := PickLessonDoc(files)
	require.NotNil(t, picked)
	assert.Equal(t, "3", picked.Id)
}

func TestPickLessonDocFallbackTiers(t *testing.T) {
	// Tier 2: a lesson-plan-named document beats a lesson-named one.
	files := []*driveapi.File{
		{Id: "1", Name: "Lesson overview", MimeType: gdocMime},
		{Id: "2", Name: "lesson_plan final", MimeType: gdocMime},
	}
	picked := PickLessonDoc(files)
	require.NotNil(t, picked)
	assert.Equal(t, "2", picked.Id)

	// Tier 3: any lesson-named document.
	files = []*driveapi.File{
		{Id: "1", Name: "Rubric", MimeType: "application/vnd.google-apps.spreadsheet"},
		{Id: "2", Name: "Lesson201", MimeType: gdocMime},
	}
	picked = PickLessonDoc(files)
	require.NotNil(t, picked)
	assert.Equal(t, "2", picked.Id)

	// Tier 4: any Google Doc when nothing is lesson-named.
	files = []*driveapi.File{
		{Id: "1", Name: "Rubric", MimeType: "application/vnd.google-apps.spreadsheet"},
		{Id: "2", Name: "Handout", MimeType: gdocMime},
	}
	picked = PickLessonDoc(files)
	require.NotNil(t, picked)
	assert.Equal(t, "2", picked.Id)
}

func TestPickLessonDocSkipsNonDocumentPlans(t *testing.T) {
	// A lesson-plan-named spreadsheet is not a plan document.
	files := []*driveapi.File{
		{Id: "1", Name: "LessonPlan tracker", MimeType: "application/vnd.google-apps.spreadsheet"},
	}
	assert.Nil(t, PickLessonDoc(files))
	assert.Nil(t, PickLessonDoc(nil))
}

func TestRouterDispatchesFolderRefs(t *testing.T) {
	r := &Router{
		Folder:    cannedFetcher("folder"),
		GoogleDoc: cannedFetcher("gdoc"),
		HTTP:      cannedFetcher("http"),
		File:      cannedFetcher("file"),
	}
	got, err := r.Fetch(context.Background(), "https://drive.google.com/drive/folders/1AbC")
	require.NoError(t, err)
	assert.Equal(t, "folder", got)

	r.Folder = nil
	_, err = r.Fetch(context.Background(), "https://drive.google.com/drive/folders/1AbC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no drive folder fetcher")
}
