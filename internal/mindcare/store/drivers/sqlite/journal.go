package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
)

const journalColumns = `id, user_id, content, label, suicidal_score, created_at`

type journalRepo struct {
	db *sql.DB
}

func (r *journalRepo) CreateJournalEntry(ctx context.Context, e domain.JournalEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, user_id, content, label, suicidal_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Content,
		mapOptionalString(e.Label), mapOptionalFloat(e.SuicidalScore),
		e.CreatedAt.UTC(),
	)
	return err
}

func (r *journalRepo) ListJournalEntries(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+journalColumns+` FROM journal_entries
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *journalRepo) GetJournalEntry(ctx context.Context, userID, id string) (domain.JournalEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	e, err := scanJournalEntry(row)
	if err != nil {
		return domain.JournalEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *journalRepo) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	return mapAffected(r.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND user_id = ?`,
		id, userID,
	))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJournalEntry(s scanner) (domain.JournalEntry, error) {
	var (
		e     domain.JournalEntry
		label sql.NullString
		score sql.NullFloat64
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Content, &label, &score, &e.CreatedAt); err != nil {
		return domain.JournalEntry{}, err
	}
	e.Label = mapNullString(label)
	e.SuicidalScore = mapNullFloat(score)
	return e, nil
}
