package models

import "time"

// Track is one playable audio file discovered in the remote folder tree.
// The JSON field names are part of the /list response contract consumed by
// the web player.
type Track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MimeType    string  `json:"mimeType"`
	Path        string  `json:"path"`
	ViewLink    string  `json:"viewLink"`
	PlayURL     string  `json:"playUrl"`
	ResourceKey *string `json:"resourceKey"`
}

// SkippedFolder records a subtree that could not be listed during a crawl.
type SkippedFolder struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// CrawlResult is the output of one full traversal of a root folder.
type CrawlResult struct {
	Items   []Track         `json:"items"`
	Skipped []SkippedFolder `json:"skipped"`
}

// LibraryPayload is the /list response envelope. It is also what gets
// persisted as the `data` column of drive_cache, with the cache flags
// rewritten on the way out.
type LibraryPayload struct {
	Items        []Track         `json:"items"`
	Skipped      []SkippedFolder `json:"skipped"`
	Cached       bool            `json:"cached"`
	Stale        bool            `json:"stale,omitempty"`
	Revalidating bool            `json:"revalidating,omitempty"`
	CachedAt     time.Time       `json:"cachedAt"`
	FolderID     string          `json:"folderId"`
}

// CacheRecord is one drive_cache row.
type CacheRecord struct {
	FolderID  string
	Data      LibraryPayload
	UpdatedAt time.Time
}
