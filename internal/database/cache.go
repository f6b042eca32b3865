package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"serwer-medytacji/internal/models"

	"github.com/jackc/pgx/v5"
)

// GetCacheEntry returns the cached crawl for a root folder, or nil when no
// crawl has been stored yet.
func (s *PostgresStore) GetCacheEntry(ctx context.Context, folderID string) (*models.CacheRecord, error) {
	query := `SELECT data, updated_at FROM drive_cache WHERE folder_id = $1`

	var data []byte
	rec := models.CacheRecord{FolderID: folderID}

	err := s.pool.QueryRow(ctx, query, folderID).Scan(&data, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &rec.Data); err != nil {
		return nil, fmt.Errorf("failed to decode cached payload for %s: %w", folderID, err)
	}

	return &rec, nil
}

// UpsertCacheEntry replaces the stored payload for a root folder and resets
// its freshness clock.
func (s *PostgresStore) UpsertCacheEntry(ctx context.Context, folderID string, payload *models.LibraryPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", folderID, err)
	}

	query := `
		INSERT INTO drive_cache (folder_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (folder_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	_, err = s.pool.Exec(ctx, query, folderID, data)
	return err
}

// TouchCacheEntry resets the freshness clock without rewriting the payload,
// used when a re-crawl found no content change.
func (s *PostgresStore) TouchCacheEntry(ctx context.Context, folderID string) error {
	query := `UPDATE drive_cache SET updated_at = now() WHERE folder_id = $1`
	_, err := s.pool.Exec(ctx, query, folderID)
	return err
}
