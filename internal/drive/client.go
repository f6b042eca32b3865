package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"serwer-medytacji/internal/config"
)

var (
	ErrNotFound   = errors.New("drive: file not found")
	ErrNotAFolder = errors.New("drive: root is not a folder")
)

// UpstreamError is any non-success response from the Drive API other than
// a plain 404.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("drive: upstream returned %d: %s", e.StatusCode, e.Body)
}

const fileFields = "id,name,mimeType,resourceKey,driveId,webViewLink,shortcutDetails(targetId,targetMimeType,targetResourceKey)"

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac", ".opus"}

type Client struct {
	http     *retryablehttp.Client
	apiKey   string
	baseURL  string
	pageSize int
}

func NewClient(cfg config.DriveConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.Logger = nil

	return &Client{
		http:     retryClient,
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: cfg.PageSize,
	}
}

// ExtractFolderID accepts a bare folder ID or a sharing URL and returns the
// folder ID. URLs are recognized by a `/folders/<id>` path segment or an
// `id` query parameter; anything else is treated as the ID itself.
func ExtractFolderID(raw string) string {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(raw, "//") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "folders" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1]
		}
	}
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	return raw
}

// IsAudio reports whether an entry should be surfaced as a playable track.
// The file-name extension check is a required fallback because Drive's
// content-type metadata is unreliable for some audio formats.
func IsAudio(name, mimeType string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "audio/") {
		return true
	}
	lowerName := strings.ToLower(name)
	for _, ext := range audioExtensions {
		if strings.HasSuffix(lowerName, ext) {
			return true
		}
	}
	return false
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (c *Client) getFile(ctx context.Context, fileID string) (*File, error) {
	params := url.Values{}
	params.Set("fields", fileFields)
	params.Set("supportsAllDrives", "true")

	body, err := c.get(ctx, "/files/"+url.PathEscape(fileID), params)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ResolveRoot fetches the metadata of the crawl root. The input may be a
// bare ID or a sharing URL. A shortcut root is replaced by its target.
func (c *Client) ResolveRoot(ctx context.Context, rawIDOrURL string) (*File, error) {
	f, err := c.getFile(ctx, ExtractFolderID(rawIDOrURL))
	if err != nil {
		return nil, err
	}

	if f.MimeType == mimeTypeShortcut && f.ShortcutDetails != nil {
		return c.getFile(ctx, f.ShortcutDetails.TargetID)
	}
	return f, nil
}

// ListChildren returns one page of direct children of parentID, restricted
// to folders and likely-audio entries, trashed files excluded. driveID
// scopes the listing to a shared drive when the root lives on one.
func (c *Client) ListChildren(ctx context.Context, parentID, pageToken, driveID string) (*FileList, error) {
	query := fmt.Sprintf(
		"'%s' in parents and trashed=false and ("+
			"mimeType='%s' or "+
			"mimeType contains 'audio' or mimeType='application/octet-stream'",
		parentID, mimeTypeFolder)
	for _, ext := range audioExtensions {
		query += fmt.Sprintf(" or name contains '%s'", ext)
	}
	query += ")"

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "nextPageToken,files("+fileFields+")")
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("supportsAllDrives", "true")
	params.Set("includeItemsFromAllDrives", "true")
	params.Set("spaces", "drive")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	if driveID != "" {
		params.Set("corpora", "drive")
		params.Set("driveId", driveID)
	} else {
		params.Set("corpora", "user")
	}

	body, err := c.get(ctx, "/files", params)
	if err != nil {
		return nil, err
	}

	var list FileList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// OpenStream requests the media content of a file, forwarding an optional
// Range header. The response is returned as-is, including non-success
// statuses, so the caller can mirror it; the caller owns closing the body.
func (c *Client) OpenStream(ctx context.Context, fileID, resourceKey, rangeHeader string) (*http.Response, error) {
	params := url.Values{}
	params.Set("alt", "media")
	params.Set("supportsAllDrives", "true")
	params.Set("acknowledgeAbuse", "true")
	params.Set("key", c.apiKey)
	if resourceKey != "" {
		params.Set("resourceKey", resourceKey)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/"+url.PathEscape(fileID)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	return c.http.Do(req)
}
