package database

import (
	"context"
	"errors"
	"serwer-medytacji/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrLikeAlreadyExists = errors.New("this track is already liked")

func (s *PostgresStore) AddLike(ctx context.Context, userID int64, trackID string) error {
	query := `INSERT INTO track_likes (user_id, track_id) VALUES ($1, $2)`
	_, err := s.pool.Exec(ctx, query, userID, trackID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrLikeAlreadyExists
		}
		return err
	}

	return nil
}

func (s *PostgresStore) RemoveLike(ctx context.Context, userID int64, trackID string) (bool, error) {
	query := `DELETE FROM track_likes WHERE user_id = $1 AND track_id = $2`
	res, err := s.pool.Exec(ctx, query, userID, trackID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListLikedTracks(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT track_id FROM track_likes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackIDs []string
	for rows.Next() {
		var trackID string
		if err := rows.Scan(&trackID); err != nil {
			return nil, err
		}
		trackIDs = append(trackIDs, trackID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if trackIDs == nil {
		return []string{}, nil
	}

	return trackIDs, nil
}

// GetLikeCounts returns a count per track for the requested IDs. Tracks
// with zero likes are simply missing from the result.
func (s *PostgresStore) GetLikeCounts(ctx context.Context, trackIDs []string) ([]models.LikeCount, error) {
	query := `
		SELECT track_id, count(*)
		FROM track_likes
		WHERE track_id = ANY($1)
		GROUP BY track_id
	`
	rows, err := s.pool.Query(ctx, query, trackIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.LikeCount
	for rows.Next() {
		var count models.LikeCount
		if err := rows.Scan(&count.TrackID, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if counts == nil {
		return []models.LikeCount{}, nil
	}

	return counts, nil
}
