package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

const journalColumns = `id, user_id, content, label, suicidal_score, created_at`

type journalRepo struct {
	pool Pool
}

func (r *journalRepo) CreateJournalEntry(ctx context.Context, e domain.JournalEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO journal_entries (id, user_id, content, label, suicidal_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Content, e.Label, e.SuicidalScore, e.CreatedAt.UTC(),
	)
	if err != nil {
		return oops.Code("JOURNAL_CREATE_FAILED").With("operation", "insert journal entry").With("user_id", e.UserID).Wrap(err)
	}
	return nil
}

func (r *journalRepo) ListJournalEntries(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+journalColumns+` FROM journal_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, oops.Code("JOURNAL_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.Label, &e.SuicidalScore, &e.CreatedAt); err != nil {
			return nil, oops.Code("JOURNAL_SCAN_FAILED").With("user_id", userID).Wrap(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("JOURNAL_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return entries, nil
}

func (r *journalRepo) GetJournalEntry(ctx context.Context, userID, id string) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := r.pool.QueryRow(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&e.ID, &e.UserID, &e.Content, &e.Label, &e.SuicidalScore, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.JournalEntry{}, oops.Code("JOURNAL_NOT_FOUND").With("entry_id", id).Wrap(store.ErrNotFound)
	}
	if err != nil {
		return domain.JournalEntry{}, oops.Code("JOURNAL_GET_FAILED").With("entry_id", id).Wrap(err)
	}
	return e, nil
}

func (r *journalRepo) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return oops.Code("JOURNAL_DELETE_FAILED").With("entry_id", id).Wrap(err)
	}
	return affected(tag)
}
