package library

import (
	"bytes"
	"encoding/json"
	"sort"

	"serwer-medytacji/internal/models"
)

// normalizedTrack is the canonical projection of a track: only the fields
// that define library content, everything cosmetic dropped.
type normalizedTrack struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MimeType    string  `json:"mimeType"`
	Path        string  `json:"path"`
	ResourceKey *string `json:"resourceKey"`
}

type normalizedPayload struct {
	Items   []normalizedTrack      `json:"items"`
	Skipped []models.SkippedFolder `json:"skipped"`
}

// normalize produces a canonical, order-independent form of a payload.
// Items are sorted by ID so two crawls of an unchanged tree normalize
// identically regardless of traversal or pagination order.
func normalize(p *models.LibraryPayload) normalizedPayload {
	items := make([]normalizedTrack, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, normalizedTrack{
			ID:          item.ID,
			Name:        item.Name,
			MimeType:    item.MimeType,
			Path:        item.Path,
			ResourceKey: item.ResourceKey,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	skipped := p.Skipped
	if skipped == nil {
		skipped = []models.SkippedFolder{}
	}

	return normalizedPayload{Items: items, Skipped: skipped}
}

// Equal reports whether two payloads carry the same library content. A
// serialization failure counts as "not equal" so the caller errs toward
// updating the cache rather than silently skipping an update.
func Equal(a, b *models.LibraryPayload) bool {
	aJSON, err := json.Marshal(normalize(a))
	if err != nil {
		return false
	}
	bJSON, err := json.Marshal(normalize(b))
	if err != nil {
		return false
	}
	return bytes.Equal(aJSON, bJSON)
}
