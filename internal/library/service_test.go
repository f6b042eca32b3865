package library

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"serwer-medytacji/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	rec     *models.CacheRecord
	readErr error
	upserts int
	touches int
	ops     chan string
}

func newFakeStore(rec *models.CacheRecord) *fakeStore {
	return &fakeStore{rec: rec, ops: make(chan string, 8)}
}

func (f *fakeStore) GetCacheEntry(ctx context.Context, folderID string) (*models.CacheRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.rec == nil {
		return nil, nil
	}
	rec := *f.rec
	return &rec, nil
}

func (f *fakeStore) UpsertCacheEntry(ctx context.Context, folderID string, payload *models.LibraryPayload) error {
	f.mu.Lock()
	f.upserts++
	f.rec = &models.CacheRecord{FolderID: folderID, Data: *payload, UpdatedAt: time.Now()}
	f.mu.Unlock()
	f.ops <- "upsert"
	return nil
}

func (f *fakeStore) TouchCacheEntry(ctx context.Context, folderID string) error {
	f.mu.Lock()
	f.touches++
	if f.rec != nil {
		f.rec.UpdatedAt = time.Now()
	}
	f.mu.Unlock()
	f.ops <- "touch"
	return nil
}

func (f *fakeStore) counts() (upserts, touches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts, f.touches
}

type fakeCrawler struct {
	result  *models.CrawlResult
	err     error
	calls   int32
	release chan struct{}
}

func (f *fakeCrawler) Crawl(ctx context.Context, rootIDOrURL string) (*models.CrawlResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	result := *f.result
	return &result, nil
}

func (f *fakeCrawler) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

type fakeBroadcaster struct {
	messages chan []byte
}

func (f *fakeBroadcaster) BroadcastAll(message []byte) {
	f.messages <- message
}

func crawlResultFixture() *models.CrawlResult {
	return &models.CrawlResult{
		Items: []models.Track{
			{ID: "a", Name: "a.mp3", MimeType: "audio/mpeg", Path: "Root"},
		},
		Skipped: []models.SkippedFolder{},
	}
}

func cacheRecordFixture(age time.Duration) *models.CacheRecord {
	return &models.CacheRecord{
		FolderID: "root1",
		Data: models.LibraryPayload{
			Items: []models.Track{
				{ID: "a", Name: "a.mp3", MimeType: "audio/mpeg", Path: "Root"},
			},
			Skipped:  []models.SkippedFolder{},
			FolderID: "root1",
		},
		UpdatedAt: time.Now().Add(-age),
	}
}

func waitForOp(t *testing.T, ops chan string) string {
	t.Helper()
	select {
	case op := <-ops:
		return op
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a cache operation")
		return ""
	}
}

func TestGetLibrary_FreshServesCacheWithoutCrawling(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(time.Minute))
	crawler := &fakeCrawler{result: crawlResultFixture()}
	svc := NewService(store, crawler, nil, time.Hour)

	payload, state, err := svc.GetLibrary(context.Background(), "root1", false)
	require.NoError(t, err)
	require.Equal(t, Fresh, state)
	require.True(t, payload.Cached)
	require.False(t, payload.Stale)
	require.False(t, payload.Revalidating)
	require.Equal(t, store.rec.UpdatedAt, payload.CachedAt)
	require.EqualValues(t, 0, crawler.callCount(), "a fresh cache hit must not touch the remote API")
}

func TestGetLibrary_AbsentCrawlsAndWrites(t *testing.T) {
	store := newFakeStore(nil)
	crawler := &fakeCrawler{result: crawlResultFixture()}
	svc := NewService(store, crawler, nil, time.Hour)

	payload, state, err := svc.GetLibrary(context.Background(), "root1", false)
	require.NoError(t, err)
	require.Equal(t, Absent, state)
	require.False(t, payload.Cached)
	require.Equal(t, "root1", payload.FolderID)
	require.Len(t, payload.Items, 1)

	require.Equal(t, "upsert", waitForOp(t, store.ops))
	upserts, touches := store.counts()
	require.Equal(t, 1, upserts)
	require.Equal(t, 0, touches)
}

func TestGetLibrary_CacheReadErrorDegradesToCrawl(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(time.Minute))
	store.readErr = errors.New("connection refused")
	crawler := &fakeCrawler{result: crawlResultFixture()}
	svc := NewService(store, crawler, nil, time.Hour)

	payload, state, err := svc.GetLibrary(context.Background(), "root1", false)
	require.NoError(t, err, "a cache read failure must never surface to the caller")
	require.Equal(t, Absent, state)
	require.False(t, payload.Cached)
	require.EqualValues(t, 1, crawler.callCount())
}

func TestGetLibrary_StaleServesCachedAndTouchesWhenUnchanged(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(2 * time.Hour))
	crawler := &fakeCrawler{result: crawlResultFixture()}
	svc := NewService(store, crawler, nil, time.Hour)

	payload, state, err := svc.GetLibrary(context.Background(), "root1", false)
	require.NoError(t, err)
	require.Equal(t, Stale, state)
	require.True(t, payload.Cached)
	require.True(t, payload.Stale)
	require.True(t, payload.Revalidating)

	require.Equal(t, "touch", waitForOp(t, store.ops))
	upserts, touches := store.counts()
	require.Equal(t, 0, upserts, "unchanged content must not be rewritten")
	require.Equal(t, 1, touches)
}

func TestGetLibrary_StaleRevalidationWritesOnChange(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(2 * time.Hour))
	crawler := &fakeCrawler{result: &models.CrawlResult{
		Items: []models.Track{
			{ID: "a", Name: "a.mp3", MimeType: "audio/mpeg", Path: "Root"},
			{ID: "b", Name: "new.wav", MimeType: "audio/wav", Path: "Root"},
		},
		Skipped: []models.SkippedFolder{},
	}}
	hub := &fakeBroadcaster{messages: make(chan []byte, 1)}
	svc := NewService(store, crawler, hub, time.Hour)

	payload, _, err := svc.GetLibrary(context.Background(), "root1", false)
	require.NoError(t, err)
	require.Len(t, payload.Items, 1, "the stale response is the previous payload, not the fresh crawl")

	require.Equal(t, "upsert", waitForOp(t, store.ops))

	select {
	case msg := <-hub.messages:
		require.Contains(t, string(msg), "library_updated")
		require.Contains(t, string(msg), "root1")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a broadcast after the cache changed")
	}
}

func TestGetLibrary_StaleResponseDoesNotWaitForCrawl(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(2 * time.Hour))
	crawler := &fakeCrawler{result: crawlResultFixture(), release: make(chan struct{})}
	svc := NewService(store, crawler, nil, time.Hour)

	done := make(chan struct{})
	go func() {
		_, _, err := svc.GetLibrary(context.Background(), "root1", false)
		require.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stale response must be returned without waiting for the crawl")
	}

	close(crawler.release)
	waitForOp(t, store.ops)
}

func TestGetLibrary_ForceRefreshBypassesFreshCache(t *testing.T) {
	store := newFakeStore(cacheRecordFixture(time.Minute))
	crawler := &fakeCrawler{result: crawlResultFixture()}
	svc := NewService(store, crawler, nil, time.Hour)

	payload, _, err := svc.GetLibrary(context.Background(), "root1", true)
	require.NoError(t, err)
	require.False(t, payload.Cached)
	require.EqualValues(t, 1, crawler.callCount())

	require.Equal(t, "upsert", waitForOp(t, store.ops))
}

func TestGetLibrary_CrawlErrorPropagates(t *testing.T) {
	store := newFakeStore(nil)
	crawler := &fakeCrawler{err: errors.New("upstream exploded")}
	svc := NewService(store, crawler, nil, time.Hour)

	_, _, err := svc.GetLibrary(context.Background(), "root1", false)
	require.Error(t, err)

	upserts, touches := store.counts()
	require.Equal(t, 0, upserts)
	require.Equal(t, 0, touches)
}
