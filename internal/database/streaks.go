package database

import (
	"context"
	"errors"
	"serwer-medytacji/internal/models"

	"github.com/jackc/pgx/v5"
)

func (s *PostgresStore) GetStreak(ctx context.Context, userID int64) (*models.Streak, error) {
	query := `
		SELECT current_streak, longest_streak, last_checkin
		FROM user_streaks
		WHERE user_id = $1
	`
	var streak models.Streak
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&streak.Current,
		&streak.Longest,
		&streak.LastCheckin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means the user simply never checked in.
			return &models.Streak{}, nil
		}
		return nil, err
	}

	return &streak, nil
}

// CheckIn records today's check-in for a user. Checking in twice on the
// same day is a no-op, a consecutive day increments the streak and a gap
// resets it to 1. The day boundary is the database server's date, so the
// computation stays in one statement.
func (s *PostgresStore) CheckIn(ctx context.Context, userID int64) (*models.Streak, error) {
	query := `
		INSERT INTO user_streaks (user_id, current_streak, longest_streak, last_checkin)
		VALUES ($1, 1, 1, CURRENT_DATE)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = CASE
				WHEN user_streaks.last_checkin = CURRENT_DATE THEN user_streaks.current_streak
				WHEN user_streaks.last_checkin = CURRENT_DATE - 1 THEN user_streaks.current_streak + 1
				ELSE 1
			END,
			longest_streak = GREATEST(user_streaks.longest_streak, CASE
				WHEN user_streaks.last_checkin = CURRENT_DATE THEN user_streaks.current_streak
				WHEN user_streaks.last_checkin = CURRENT_DATE - 1 THEN user_streaks.current_streak + 1
				ELSE 1
			END),
			last_checkin = CURRENT_DATE
		RETURNING current_streak, longest_streak, last_checkin
	`
	var streak models.Streak
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&streak.Current,
		&streak.Longest,
		&streak.LastCheckin,
	)
	if err != nil {
		return nil, err
	}

	return &streak, nil
}
