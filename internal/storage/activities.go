package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/eco-ledger/internal/model"
)

// AppendActivity journals the inputs of an accepted record at the end of a session.
// Factor and emission are not stored; they are recomputed when the journal is replayed.
func (s *SQLiteStorage) AppendActivity(ctx context.Context, sessionID string, record model.ActivityRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var seq int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM activities WHERE session_id = ?`,
			sessionID).Scan(&seq)
		if err != nil {
			return fmt.Errorf("failed to compute sequence: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO activities (id, session_id, seq, category, variant, unit, quantity, description, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			sessionID,
			seq,
			string(record.Category),
			record.Variant,
			string(record.Unit),
			record.Quantity,
			record.Description,
			record.RecordedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
}

// ListActivities returns the journaled inputs of a session in reporting order.
// The returned records carry no factor or emission.
func (s *SQLiteStorage) ListActivities(ctx context.Context, sessionID string) ([]model.ActivityRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, variant, unit, quantity, description, recorded_at
		FROM activities
		WHERE session_id = ?
		ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ActivityRecord
	for rows.Next() {
		var (
			r        model.ActivityRecord
			category string
			unit     string
		)
		if err := rows.Scan(&r.ID, &category, &r.Variant, &unit, &r.Quantity, &r.Description, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		r.Category = model.Category(category)
		r.Unit = model.Unit(unit)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return records, nil
}

// ClearActivities empties a session's journal but keeps the session.
func (s *SQLiteStorage) ClearActivities(ctx context.Context, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}
	return nil
}
