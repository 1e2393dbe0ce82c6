package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store/drivers/sqlite"
	"github.com/aussiebroadwan/mindcare/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func mustCreateUser(t *testing.T, st store.Store, username, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	alice := mustCreateUser(t, st, "alice", "a@x.com")

	t.Run("lookups", func(t *testing.T) {
		byName, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, byName.ID)
		require.Equal(t, "a@x.com", byName.Email)
		require.Equal(t, domain.RoleUser, byName.Role)
		require.Equal(t, alice.PasswordHash, byName.PasswordHash)
		require.WithinDuration(t, alice.CreatedAt, byName.CreatedAt, time.Second)

		byEmail, err := st.Users().GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, alice.ID, byEmail.ID)

		byID, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", byID.Username)
	})

	t.Run("username is case sensitive", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "Alice")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "bob")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.Users().GetUserByEmail(ctx, "b@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Username: "alice", Email: "other@x.com",
			PasswordHash: "h", Role: domain.RoleUser, CreatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Username: "alice2", Email: "a@x.com",
			PasswordHash: "h", Role: domain.RoleUser, CreatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestJournalEntries_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	repo := st.JournalEntries()

	alice := mustCreateUser(t, st, "alice", "a@x.com")
	bob := mustCreateUser(t, st, "bob", "b@x.com")

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	label := "NEUTRAL"
	score := 0.12

	first := domain.JournalEntry{ID: idx.NewAt(base).String(), UserID: alice.ID, Content: "first", CreatedAt: base}
	second := domain.JournalEntry{
		ID: idx.NewAt(base.Add(time.Hour)).String(), UserID: alice.ID, Content: "second",
		Label: &label, SuicidalScore: &score, CreatedAt: base.Add(time.Hour),
	}
	bobs := domain.JournalEntry{ID: idx.New().String(), UserID: bob.ID, Content: "bob's", CreatedAt: base}

	for _, e := range []domain.JournalEntry{first, second, bobs} {
		require.NoError(t, repo.CreateJournalEntry(ctx, e))
	}

	t.Run("list is newest first and only own", func(t *testing.T) {
		entries, err := repo.ListJournalEntries(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "second", entries[0].Content)
		require.Equal(t, "first", entries[1].Content)

		require.NotNil(t, entries[0].Label)
		require.Equal(t, "NEUTRAL", *entries[0].Label)
		require.InDelta(t, 0.12, *entries[0].SuicidalScore, 1e-9)
		require.Nil(t, entries[1].Label)
		require.Nil(t, entries[1].SuicidalScore)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		carol := mustCreateUser(t, st, "carol", "c@x.com")
		entries, err := repo.ListJournalEntries(ctx, carol.ID)
		require.NoError(t, err)
		require.NotNil(t, entries)
		require.Empty(t, entries)
	})

	t.Run("get is owner scoped", func(t *testing.T) {
		got, err := repo.GetJournalEntry(ctx, alice.ID, first.ID)
		require.NoError(t, err)
		require.Equal(t, "first", got.Content)

		_, err = repo.GetJournalEntry(ctx, alice.ID, bobs.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		err := repo.DeleteJournalEntry(ctx, alice.ID, bobs.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = repo.GetJournalEntry(ctx, bob.ID, bobs.ID)
		require.NoError(t, err, "bob's entry must survive alice's delete attempt")

		require.NoError(t, repo.DeleteJournalEntry(ctx, alice.ID, first.ID))
		err = repo.DeleteJournalEntry(ctx, alice.ID, first.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestAppointments_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	repo := st.Appointments()

	alice := mustCreateUser(t, st, "alice", "a@x.com")
	bob := mustCreateUser(t, st, "bob", "b@x.com")

	day := func(s string) time.Time {
		d, err := time.Parse(domain.DateLayout, s)
		require.NoError(t, err)
		return d
	}

	later := domain.Appointment{
		ID: idx.New().String(), UserID: alice.ID, DoctorName: "Dr. Later",
		AppointmentDate: day("2025-04-10"), TimeSlot: "09:00", CreatedAt: time.Now(),
	}
	sooner := domain.Appointment{
		ID: idx.New().String(), UserID: alice.ID, DoctorName: "Dr. Sooner", Specialization: "Psychiatry",
		AppointmentDate: day("2025-04-02"), TimeSlot: "14:00", Note: "bring notes", CreatedAt: time.Now(),
	}
	bobs := domain.Appointment{
		ID: idx.New().String(), UserID: bob.ID, DoctorName: "Dr. Bob",
		AppointmentDate: day("2025-04-01"), TimeSlot: "10:00", CreatedAt: time.Now(),
	}
	for _, a := range []domain.Appointment{later, sooner, bobs} {
		require.NoError(t, repo.CreateAppointment(ctx, a))
	}

	list, err := repo.ListAppointments(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Dr. Sooner", list[0].DoctorName)
	require.Equal(t, "Psychiatry", list[0].Specialization)
	require.Equal(t, "bring notes", list[0].Note)
	require.True(t, day("2025-04-02").Equal(list[0].AppointmentDate))
	require.Equal(t, "Dr. Later", list[1].DoctorName)

	require.ErrorIs(t, repo.DeleteAppointment(ctx, alice.ID, bobs.ID), store.ErrNotFound)
	require.NoError(t, repo.DeleteAppointment(ctx, alice.ID, sooner.ID))

	list, err = repo.ListAppointments(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = repo.ListAppointments(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestFileStore_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindcare.db")

	st, err := sqlite.NewStore(sqlite.FileDSN(path))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))

	mustCreateUser(t, st, "alice", "a@x.com")
	require.NoError(t, st.Close())

	// Reopen and make sure the data survived
	st, err = sqlite.NewStore(sqlite.FileDSN(path))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.ApplyMigrations())

	_, err = st.Users().GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
}
