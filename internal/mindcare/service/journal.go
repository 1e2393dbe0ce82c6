package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/classifier"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/idx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

const (
	MaxJournalContentBytes = 20000
	MaxLabelLength         = 32
)

// Classifier annotates journal text. *classifier.Client satisfies it.
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Result, error)
}

type JournalService struct {
	Store store.Store

	// Classifier is optional. When set, entries submitted without a label
	// are scored before they are stored.
	Classifier Classifier

	Now func() time.Time
}

type JournalInput struct {
	Content       string
	Label         *string
	SuicidalScore *float64
}

// CreateEntry stores a new entry owned by the caller.
func (s *JournalService) CreateEntry(ctx context.Context, who httpx.Identity, in JournalInput) (domain.JournalEntry, error) {
	log := slogx.FromContext(ctx)

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return domain.JournalEntry{}, validationError("content is required")
	}
	if len(content) > MaxJournalContentBytes {
		return domain.JournalEntry{}, validationError("content must be at most %d bytes", MaxJournalContentBytes)
	}

	label, err := normalizeLabel(in.Label)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if in.SuicidalScore != nil && !validScore(*in.SuicidalScore) {
		return domain.JournalEntry{}, validationError("suicidalScore must be between 0 and 1")
	}

	entry := domain.JournalEntry{
		ID:            idx.New().String(),
		UserID:        who.UserID,
		Content:       content,
		Label:         label,
		SuicidalScore: in.SuicidalScore,
		CreatedAt:     now(s.Now).UTC(),
	}

	if entry.Label == nil && s.Classifier != nil {
		s.annotate(ctx, &entry)
	}

	if err := s.Store.JournalEntries().CreateJournalEntry(ctx, entry); err != nil {
		log.Error("failed to create journal entry", slog.Any("error", err))
		return domain.JournalEntry{}, err
	}

	log.Debug("journal entry created", slog.String("entry_id", entry.ID))
	return entry, nil
}

// annotate is best effort; the entry is stored unscored if the classifier
// cannot be reached.
func (s *JournalService) annotate(ctx context.Context, entry *domain.JournalEntry) {
	res, err := s.Classifier.Classify(ctx, entry.Content)
	if err != nil {
		slogx.FromContext(ctx).Warn("journal classification failed", slog.Any("error", err))
		return
	}
	if res.Label != "" {
		label := res.Label
		entry.Label = &label
	}
	if entry.SuicidalScore == nil && validScore(res.SuicidalScore) {
		score := res.SuicidalScore
		entry.SuicidalScore = &score
	}
}

func (s *JournalService) ListEntries(ctx context.Context, who httpx.Identity) ([]domain.JournalEntry, error) {
	return s.Store.JournalEntries().ListJournalEntries(ctx, who.UserID)
}

func (s *JournalService) GetEntry(ctx context.Context, who httpx.Identity, id string) (domain.JournalEntry, error) {
	entry, err := s.Store.JournalEntries().GetJournalEntry(ctx, who.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.JournalEntry{}, ErrNotFound
	}
	return entry, err
}

// DeleteEntry only ever removes an entry owned by the caller.
func (s *JournalService) DeleteEntry(ctx context.Context, who httpx.Identity, id string) error {
	err := s.Store.JournalEntries().DeleteJournalEntry(ctx, who.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Debug("journal entry deleted", slog.String("entry_id", id))
	return nil
}

func normalizeLabel(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	label := strings.ToUpper(strings.TrimSpace(*raw))
	if label == "" {
		return nil, nil
	}
	if len(label) > MaxLabelLength {
		return nil, validationError("label must be at most %d characters", MaxLabelLength)
	}
	return &label, nil
}

func validScore(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}
