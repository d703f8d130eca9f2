package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mymedialist/medialist-server/internal/domain"
)

// entryColumns selects a list entry joined with its catalog work.
// Must match the scan order in scanEntry.
const entryColumns = `e.id, e.user_id, e.media_id, e.status, e.rating, e.notes, e.progress,
	e.created_at, e.updated_at,
	w.id, w.title, w.category, w.source, w.external_id, w.total_units, w.unit_type,
	w.created_at, w.updated_at`

// scanEntry scans a joined list_entries/media_works row into a domain.ListEntry
// with Media populated.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.ListEntry, error) {
	var (
		e domain.ListEntry
		w domain.MediaWork

		rating     sql.NullInt64
		notes      sql.NullString
		progress   sql.NullInt64
		eCreatedAt string
		eUpdatedAt string

		externalID sql.NullString
		totalUnits sql.NullInt64
		unitType   sql.NullString
		wCreatedAt string
		wUpdatedAt string
	)

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.MediaID,
		&e.Status,
		&rating,
		&notes,
		&progress,
		&eCreatedAt,
		&eUpdatedAt,
		&w.ID,
		&w.Title,
		&w.Category,
		&w.Source,
		&externalID,
		&totalUnits,
		&unitType,
		&wCreatedAt,
		&wUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Rating = intPtr(rating)
	e.Notes = stringPtr(notes)
	e.Progress = intPtr(progress)

	e.CreatedAt, err = parseTime(eCreatedAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(eUpdatedAt)
	if err != nil {
		return nil, err
	}

	w.ExternalID = stringPtr(externalID)
	w.TotalUnits = intPtr(totalUnits)
	w.UnitType = stringPtr(unitType)

	w.CreatedAt, err = parseTime(wCreatedAt)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseTime(wUpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Media = &w
	return &e, nil
}

// CreateEntryWithWork inserts a catalog work and the list entry referencing it
// in one transaction. Either both rows exist afterwards or neither does.
// Returns ErrAlreadyExists if the user already has an entry for the work.
func (s *Store) CreateEntryWithWork(ctx context.Context, work *domain.MediaWork, entry *domain.ListEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO media_works (id, created_at, updated_at, title, category, source, external_id, total_units, unit_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		work.ID,
		formatTime(work.CreatedAt),
		formatTime(work.UpdatedAt),
		work.Title,
		string(work.Category),
		work.Source,
		nullableString(work.ExternalID),
		nullableInt(work.TotalUnits),
		nullableString(work.UnitType),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO list_entries (id, user_id, media_id, status, rating, notes, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.MediaID,
		string(entry.Status),
		nullableInt(entry.Rating),
		nullableString(entry.Notes),
		nullableInt(entry.Progress),
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}

	return tx.Commit()
}

// GetEntry retrieves a list entry by ID, joined with its catalog work.
// Returns ErrEntryNotFound if the entry does not exist.
func (s *Store) GetEntry(ctx context.Context, entryID string) (*domain.ListEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM list_entries e
		JOIN media_works w ON w.id = e.media_id
		WHERE e.id = ?`, entryID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntryWithWork applies an edit to a list entry and its catalog work in
// one transaction: the title lands on the work, everything else on the entry.
// Returns ErrEntryNotFound if the entry no longer exists.
func (s *Store) UpdateEntryWithWork(ctx context.Context, entry *domain.ListEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE list_entries
		SET status = ?, rating = ?, notes = ?, progress = ?, updated_at = ?
		WHERE id = ?`,
		string(entry.Status),
		nullableInt(entry.Rating),
		nullableString(entry.Notes),
		nullableInt(entry.Progress),
		formatTime(entry.UpdatedAt),
		entry.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE media_works SET title = ?, updated_at = ? WHERE id = ?`,
		entry.Media.Title,
		formatTime(entry.Media.UpdatedAt),
		entry.MediaID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteEntryWithWork removes a list entry and its now-orphaned catalog work
// in one transaction. Returns ErrEntryNotFound if the entry does not exist.
func (s *Store) DeleteEntryWithWork(ctx context.Context, entryID, mediaID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM list_entries WHERE id = ?`, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_works WHERE id = ?`, mediaID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListEntries returns all of a user's entries in a category, joined with
// their works, ordered by title (case-insensitive) with entry ID as
// tiebreaker so the order is stable.
func (s *Store) ListEntries(ctx context.Context, userID string, category domain.Category) ([]*domain.ListEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM list_entries e
		JOIN media_works w ON w.id = e.media_id
		WHERE e.user_id = ? AND w.category = ?
		ORDER BY w.title COLLATE NOCASE ASC, e.id ASC`,
		userID, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ListEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
