package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repurpose/repurpose/internal/model"
)

// execer lets points credits run against either a *sql.DB or the
// transaction wrapping a request completion.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreditPoints adds points to a user's balance, creating the balance row on
// first credit. The increment happens inside the database, never as a
// read-modify-write, so concurrent credits cannot lose updates.
func CreditPoints(ctx context.Context, db execer, userID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", model.ErrValidation)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO donor_points (user_id, points) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET points = points + excluded.points`,
		userID, amount,
	)
	if err != nil {
		return fmt.Errorf("crediting points: %w", err)
	}
	return nil
}

// GetPoints returns a user's points balance. Users without a balance row
// have zero points.
func GetPoints(ctx context.Context, db *sql.DB, userID int64) (int64, error) {
	var points int64
	err := db.QueryRowContext(ctx,
		`SELECT points FROM donor_points WHERE user_id = ?`, userID,
	).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting points: %w", err)
	}
	return points, nil
}

// Leaderboard returns the top individual donors by points, ties broken by
// ascending user ID, each row annotated with the derived badge and the
// number of items the donor has listed.
func Leaderboard(ctx context.Context, db *sql.DB, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", model.ErrValidation)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT dp.user_id, u.name, dp.points, COUNT(DISTINCT i.id) AS total_donations
		 FROM donor_points dp
		 JOIN users u ON u.id = dp.user_id
		 LEFT JOIN items i ON i.owner_id = dp.user_id AND i.deleted_at IS NULL
		 WHERE u.user_type = ? AND u.deleted_at IS NULL
		 GROUP BY dp.user_id, u.name, dp.points
		 ORDER BY dp.points DESC, dp.user_id ASC
		 LIMIT ?`,
		string(model.RoleIndividual), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Points, &e.TotalDonations); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		e.Badge = model.BadgeOf(e.Points)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
