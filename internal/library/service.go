package library

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"serwer-medytacji/internal/models"
)

// TreeCrawler produces one full traversal of a remote folder tree.
type TreeCrawler interface {
	Crawl(ctx context.Context, rootIDOrURL string) (*models.CrawlResult, error)
}

// CacheStore is the per-root crawl cache. Read errors are treated by the
// service as cache-absent, never surfaced to callers.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, folderID string) (*models.CacheRecord, error)
	UpsertCacheEntry(ctx context.Context, folderID string, payload *models.LibraryPayload) error
	TouchCacheEntry(ctx context.Context, folderID string) error
}

// Broadcaster pushes a message to every connected websocket client.
type Broadcaster interface {
	BroadcastAll(message []byte)
}

// Service decides, per request, whether to serve the cached library, serve
// it stale while revalidating in the background, or crawl synchronously.
type Service struct {
	store   CacheStore
	crawler TreeCrawler
	hub     Broadcaster
	ttl     time.Duration

	// One in-flight crawl per root ID; concurrent callers share the result.
	group singleflight.Group
}

func NewService(store CacheStore, crawler TreeCrawler, hub Broadcaster, ttl time.Duration) *Service {
	return &Service{
		store:   store,
		crawler: crawler,
		hub:     hub,
		ttl:     ttl,
	}
}

// GetLibrary serves the track list for one root folder. forceRefresh must
// already be authorized by the caller; it bypasses the cache entirely.
// The returned Freshness reports how the cache was classified so the
// handler can pick response headers.
func (s *Service) GetLibrary(ctx context.Context, folderID string, forceRefresh bool) (*models.LibraryPayload, Freshness, error) {
	rec, err := s.store.GetCacheEntry(ctx, folderID)
	if err != nil {
		log.Printf("Cache read failed (non-fatal): %v", err)
		rec = nil
	}

	state := classify(rec, time.Now(), s.ttl)
	cacheLookups.WithLabelValues(state.String()).Inc()

	if !forceRefresh {
		switch state {
		case Fresh:
			return cachedView(rec, false), state, nil
		case Stale:
			prev := rec.Data
			go s.revalidate(folderID, &prev)
			return cachedView(rec, true), state, nil
		}
	}

	payload, err := s.refresh(ctx, folderID)
	if err != nil {
		return nil, state, err
	}
	return payload, state, nil
}

// cachedView returns the stored payload with the cache flags rewritten for
// this response; the stored row itself is never mutated.
func cachedView(rec *models.CacheRecord, stale bool) *models.LibraryPayload {
	view := rec.Data
	view.Cached = true
	view.CachedAt = rec.UpdatedAt
	if stale {
		view.Stale = true
		view.Revalidating = true
	}
	return &view
}

// refresh performs a synchronous crawl and unconditionally writes the
// result. Concurrent refreshes of the same root share one crawl.
func (s *Service) refresh(ctx context.Context, folderID string) (*models.LibraryPayload, error) {
	v, err, _ := s.group.Do(folderID, func() (interface{}, error) {
		body, err := s.crawlOnce(ctx, folderID, "sync")
		if err != nil {
			return nil, err
		}
		if err := s.store.UpsertCacheEntry(ctx, folderID, body); err != nil {
			log.Printf("Cache write failed (non-fatal): %v", err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LibraryPayload), nil
}

// revalidate runs detached from the request that triggered it: the stale
// response has already been sent, so every error here is logged and
// dropped. It shares the singleflight key with refresh, so a background
// revalidation never overlaps a synchronous crawl of the same root.
func (s *Service) revalidate(folderID string, prev *models.LibraryPayload) {
	ctx := context.Background()

	s.group.Do(folderID, func() (interface{}, error) {
		body, err := s.crawlOnce(ctx, folderID, "background")
		if err != nil {
			log.Printf("Background revalidation failed: %v", err)
			return nil, nil
		}

		if Equal(prev, body) {
			if err := s.store.TouchCacheEntry(ctx, folderID); err != nil {
				log.Printf("Cache timestamp update failed: %v", err)
			}
			return nil, nil
		}

		if err := s.store.UpsertCacheEntry(ctx, folderID, body); err != nil {
			log.Printf("Cache upsert after revalidation failed: %v", err)
			return nil, nil
		}
		s.notifyUpdated(folderID)
		return nil, nil
	})
}

func (s *Service) crawlOnce(ctx context.Context, folderID, mode string) (*models.LibraryPayload, error) {
	start := time.Now()
	result, err := s.crawler.Crawl(ctx, folderID)
	crawlDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		crawls.WithLabelValues(mode, "error").Inc()
		return nil, err
	}
	crawls.WithLabelValues(mode, "ok").Inc()

	return &models.LibraryPayload{
		Items:    result.Items,
		Skipped:  result.Skipped,
		Cached:   false,
		CachedAt: time.Now().UTC(),
		FolderID: folderID,
	}, nil
}

func (s *Service) notifyUpdated(folderID string) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]string{
		"event_type": "library_updated",
		"folder_id":  folderID,
	})
	if err != nil {
		return
	}
	s.hub.BroadcastAll(msg)
}
