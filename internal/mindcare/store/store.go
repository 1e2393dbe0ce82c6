package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned by CreateUser when a unique constraint on
	// username or email rejected the insert. The constraint, not a pre-check,
	// is what makes concurrent registrations safe.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	JournalEntries() JournalEntries
	Appointments() Appointments

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is an exact, case-sensitive match.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is the login fallback when the username lookup misses.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a username or email collision.
	CreateUser(ctx context.Context, u domain.User) error
}

// JournalEntries is scoped by owner on every read and delete. There is
// deliberately no way to fetch an entry by id alone.
type JournalEntries interface {
	CreateJournalEntry(ctx context.Context, e domain.JournalEntry) error

	// ListJournalEntries returns the owner's entries, newest first.
	ListJournalEntries(ctx context.Context, userID string) ([]domain.JournalEntry, error)

	// GetJournalEntry returns ErrNotFound when id does not exist or belongs
	// to someone else.
	GetJournalEntry(ctx context.Context, userID, id string) (domain.JournalEntry, error)

	// DeleteJournalEntry returns ErrNotFound when nothing owned by userID
	// was deleted.
	DeleteJournalEntry(ctx context.Context, userID, id string) error
}

type Appointments interface {
	CreateAppointment(ctx context.Context, a domain.Appointment) error

	// ListAppointments returns the owner's appointments by date ascending.
	ListAppointments(ctx context.Context, userID string) ([]domain.Appointment, error)

	// DeleteAppointment returns ErrNotFound when nothing owned by userID
	// was deleted.
	DeleteAppointment(ctx context.Context, userID, id string) error
}
