package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// CreateSession creates a new named session.
func (s *SQLiteStorage) CreateSession(ctx context.Context, name string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, created_at) VALUES (?, ?, ?)`,
		session.ID, session.Name, session.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: %s", ErrSessionExists, name)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Debug("created session", "name", name, "id", session.ID)
	return session, nil
}

// GetSession returns the session with the given name.
func (s *SQLiteStorage) GetSession(ctx context.Context, name string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var session model.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM sessions WHERE name = ?`,
		strings.TrimSpace(name)).Scan(&session.ID, &session.Name, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionMissing, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &session, nil
}

// ListSessions returns all sessions, oldest first.
func (s *SQLiteStorage) ListSessions(ctx context.Context) ([]model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM sessions ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(&session.ID, &session.Name, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session and its whole journal.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE name = ?`, strings.TrimSpace(name)).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrSessionMissing, name)
		}
		if err != nil {
			return fmt.Errorf("failed to query session: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete session activities: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		slog.Debug("deleted session", "name", name, "id", id)
		return nil
	})
}
