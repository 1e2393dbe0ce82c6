package domain

import "time"

// JournalEntry is a private diary entry. Label and SuicidalScore come from
// the text classifier and are nil when the entry was never scored.
type JournalEntry struct {
	ID            string
	UserID        string
	Content       string
	Label         *string
	SuicidalScore *float64
	CreatedAt     time.Time
}
