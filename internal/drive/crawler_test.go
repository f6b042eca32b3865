package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrawl_NestedFolders(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["root1"] = File{ID: "root1", Name: "Meditations", MimeType: "application/vnd.google-apps.folder"}
	fd.children["root1"] = []File{
		{ID: "a", Name: "a.mp3", MimeType: "audio/mpeg"},
		{ID: "kids", Name: "Kids", MimeType: "application/vnd.google-apps.folder"},
	}
	fd.children["kids"] = []File{
		{ID: "b", Name: "b.wav", MimeType: "audio/wav"},
	}
	client := newTestClient(t, fd, 1000)

	result, err := client.Crawl(context.Background(), "root1")
	require.NoError(t, err)
	require.Empty(t, result.Skipped)
	require.Len(t, result.Items, 2)

	byID := make(map[string]string)
	for _, item := range result.Items {
		byID[item.ID] = item.Path
	}
	require.Equal(t, "Root", byID["a"])
	require.Equal(t, "Root/Kids", byID["b"])
}

func TestCrawl_RootIsNotAFolder(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["file1"] = File{ID: "file1", Name: "a.mp3", MimeType: "audio/mpeg"}
	client := newTestClient(t, fd, 1000)

	_, err := client.Crawl(context.Background(), "file1")
	require.ErrorIs(t, err, ErrNotAFolder)
}

func TestCrawl_SkipsUnreadableSubtree(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["root1"] = File{ID: "root1", Name: "Root", MimeType: "application/vnd.google-apps.folder"}
	fd.children["root1"] = []File{
		{ID: "x", Name: "X", MimeType: "application/vnd.google-apps.folder"},
		{ID: "y", Name: "Y", MimeType: "application/vnd.google-apps.folder"},
	}
	fd.children["y"] = []File{
		{ID: "song", Name: "song.mp3", MimeType: "audio/mpeg"},
	}
	fd.deniedIDs["x"] = true
	client := newTestClient(t, fd, 1000)

	result, err := client.Crawl(context.Background(), "root1")
	require.NoError(t, err, "one bad subtree must not abort the crawl")

	require.Len(t, result.Items, 1)
	require.Equal(t, "song", result.Items[0].ID)
	require.Equal(t, "Root/Y", result.Items[0].Path)

	require.Len(t, result.Skipped, 1)
	require.Equal(t, "x", result.Skipped[0].ID)
	require.Equal(t, "Root/X", result.Skipped[0].Path)
	require.NotEmpty(t, result.Skipped[0].Reason)
}

func TestCrawl_ResolvesShortcutsBeforeClassification(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["root1"] = File{ID: "root1", Name: "Root", MimeType: "application/vnd.google-apps.folder"}
	fd.children["root1"] = []File{
		{
			ID:       "short-folder",
			Name:     "Linked",
			MimeType: "application/vnd.google-apps.shortcut",
			ShortcutDetails: &ShortcutDetails{
				TargetID:       "real-folder",
				TargetMimeType: "application/vnd.google-apps.folder",
			},
		},
		{
			ID:       "short-audio",
			Name:     "calm.mp3",
			MimeType: "application/vnd.google-apps.shortcut",
			ShortcutDetails: &ShortcutDetails{
				TargetID:          "real-audio",
				TargetMimeType:    "audio/mpeg",
				TargetResourceKey: "rk1",
			},
		},
	}
	fd.children["real-folder"] = []File{
		{ID: "deep", Name: "deep.ogg", MimeType: "audio/ogg"},
	}
	client := newTestClient(t, fd, 1000)

	result, err := client.Crawl(context.Background(), "root1")
	require.NoError(t, err)
	require.Empty(t, result.Skipped)

	ids := make(map[string]bool)
	for _, item := range result.Items {
		ids[item.ID] = true
	}
	require.True(t, ids["real-audio"], "shortcut audio must appear under its target ID")
	require.True(t, ids["deep"], "shortcut folder must be traversed under its target ID")
	require.False(t, ids["short-audio"], "a shortcut must never appear under its own ID")
	require.False(t, ids["short-folder"])

	for _, item := range result.Items {
		if item.ID == "real-audio" {
			require.NotNil(t, item.ResourceKey)
			require.Equal(t, "rk1", *item.ResourceKey)
			require.Contains(t, item.PlayURL, "resourceKey=rk1")
		}
	}
}

func TestCrawl_PaginatesUntilTokenExhausted(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["root1"] = File{ID: "root1", Name: "Root", MimeType: "application/vnd.google-apps.folder"}
	fd.children["root1"] = []File{
		{ID: "t1", Name: "t1.mp3", MimeType: "audio/mpeg"},
		{ID: "t2", Name: "t2.mp3", MimeType: "audio/mpeg"},
		{ID: "t3", Name: "t3.mp3", MimeType: "audio/mpeg"},
		{ID: "t4", Name: "t4.mp3", MimeType: "audio/mpeg"},
		{ID: "t5", Name: "t5.mp3", MimeType: "audio/mpeg"},
	}
	client := newTestClient(t, fd, 2)

	result, err := client.Crawl(context.Background(), "root1")
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
}

func TestCrawl_IgnoresNonAudioAndDeduplicates(t *testing.T) {
	fd := newFakeDrive()
	fd.meta["root1"] = File{ID: "root1", Name: "Root", MimeType: "application/vnd.google-apps.folder"}
	fd.children["root1"] = []File{
		{ID: "t1", Name: "t1.mp3", MimeType: "audio/mpeg"},
		{ID: "doc", Name: "notes.txt", MimeType: "text/plain"},
		{
			ID:       "short-dup",
			Name:     "t1-again.mp3",
			MimeType: "application/vnd.google-apps.shortcut",
			ShortcutDetails: &ShortcutDetails{
				TargetID:       "t1",
				TargetMimeType: "audio/mpeg",
			},
		},
	}
	client := newTestClient(t, fd, 1000)

	result, err := client.Crawl(context.Background(), "root1")
	require.NoError(t, err)
	require.Len(t, result.Items, 1, "non-audio discarded, duplicate target ID suppressed")
	require.Equal(t, "t1", result.Items[0].ID)
}
