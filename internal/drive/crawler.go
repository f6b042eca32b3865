package drive

import (
	"context"
	"net/url"

	"serwer-medytacji/internal/models"
)

type queueItem struct {
	id      string
	path    string
	driveID string
}

func buildPlayURL(id, resourceKey string) string {
	playURL := "/api/v1/stream/" + url.PathEscape(id)
	if resourceKey != "" {
		playURL += "?resourceKey=" + url.QueryEscape(resourceKey)
	}
	return playURL
}

// Crawl walks the folder tree under rootIDOrURL breadth-first and collects
// every audio file with its slash-joined path. A folder whose listing fails
// is recorded in Skipped and the crawl moves on; only a bad root aborts the
// whole crawl.
func (c *Client) Crawl(ctx context.Context, rootIDOrURL string) (*models.CrawlResult, error) {
	root, err := c.ResolveRoot(ctx, rootIDOrURL)
	if err != nil {
		return nil, err
	}
	if root.MimeType != mimeTypeFolder {
		return nil, ErrNotAFolder
	}

	queue := []queueItem{{id: root.ID, path: "Root", driveID: root.DriveID}}
	result := &models.CrawlResult{
		Items:   []models.Track{},
		Skipped: []models.SkippedFolder{},
	}
	seen := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		pageToken := ""
		for {
			page, err := c.ListChildren(ctx, current.id, pageToken, current.driveID)
			if err != nil {
				result.Skipped = append(result.Skipped, models.SkippedFolder{
					ID:     current.id,
					Path:   current.path,
					Reason: err.Error(),
				})
				break
			}

			for _, f := range page.Files {
				id, mimeType, resourceKey := f.Effective()

				if mimeType == mimeTypeFolder {
					queue = append(queue, queueItem{
						id:      id,
						path:    current.path + "/" + f.Name,
						driveID: current.driveID,
					})
					continue
				}

				if !IsAudio(f.Name, mimeType) {
					continue
				}
				if seen[id] {
					continue
				}
				seen[id] = true

				viewLink := f.WebViewLink
				if viewLink == "" {
					viewLink = "https://drive.google.com/file/d/" + id + "/view"
				}

				var rkey *string
				if resourceKey != "" {
					rkey = &resourceKey
				}

				result.Items = append(result.Items, models.Track{
					ID:          id,
					Name:        f.Name,
					MimeType:    mimeType,
					Path:        current.path,
					ViewLink:    viewLink,
					PlayURL:     buildPlayURL(id, resourceKey),
					ResourceKey: rkey,
				})
			}

			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
	}

	return result, nil
}
