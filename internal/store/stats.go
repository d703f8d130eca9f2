package store

import (
	"context"
	"database/sql"
	"math"

	"github.com/mymedialist/medialist-server/internal/domain"
)

// GetCategoryStats computes summary statistics for one user+category:
// entry count, average of non-null ratings (2 decimal places), and a count
// per status with every enumerated status present even at zero.
//
// All three queries run inside one read transaction so the result reflects a
// single consistent snapshot even if a concurrent write commits mid-read.
func (s *Store) GetCategoryStats(ctx context.Context, userID string, category domain.Category) (*domain.CategoryStats, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stats := &domain.CategoryStats{
		Category:     category,
		StatusCounts: make(map[domain.Status]int, len(domain.Statuses)),
	}
	for _, status := range domain.Statuses {
		stats.StatusCounts[status] = 0
	}

	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(e.id)
		FROM list_entries e
		JOIN media_works w ON w.id = e.media_id
		WHERE e.user_id = ? AND w.category = ?`,
		userID, string(category)).Scan(&stats.Total)
	if err != nil {
		return nil, err
	}

	// AVG ignores NULL ratings; the result itself is NULL when no entry in
	// the category has a rating.
	var avg sql.NullFloat64
	err = tx.QueryRowContext(ctx, `
		SELECT AVG(e.rating)
		FROM list_entries e
		JOIN media_works w ON w.id = e.media_id
		WHERE e.user_id = ? AND w.category = ? AND e.rating IS NOT NULL`,
		userID, string(category)).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		rounded := math.Round(avg.Float64*100) / 100
		stats.AvgRating = &rounded
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT e.status, COUNT(e.id)
		FROM list_entries e
		JOIN media_works w ON w.id = e.media_id
		WHERE e.user_id = ? AND w.category = ?
		GROUP BY e.status`,
		userID, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.StatusCounts[domain.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, tx.Commit()
}
