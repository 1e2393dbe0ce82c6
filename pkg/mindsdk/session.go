package mindsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session carries a bearer token. Tokens are not refreshed; once Expired
// reports true the caller has to log in again.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
}

func (s *Session) Token() string { return s.token }

func (s *Session) Expired() bool { return !time.Now().Before(s.expiresAt) }

// Me returns the identity the server resolves for this session.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/me", s.token, nil, nil)
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Journal
// ============================================================================

func (s *Session) CreateJournalEntry(ctx context.Context, req JournalEntryRequest) (*JournalEntry, error) {
	resp, err := s.client.doJSON(ctx, http.MethodPost, "/api/journal", s.token, req)
	if err != nil {
		return nil, err
	}

	var out JournalEntry
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListJournalEntries(ctx context.Context) ([]JournalEntry, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/journal", s.token, nil, nil)
	if err != nil {
		return nil, err
	}

	var out []JournalEntry
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetJournalEntry(ctx context.Context, id string) (*JournalEntry, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/journal/"+url.PathEscape(id), s.token, nil, nil)
	if err != nil {
		return nil, err
	}

	var out JournalEntry
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteJournalEntry(ctx context.Context, id string) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/api/journal/"+url.PathEscape(id), s.token, nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Appointments
// ============================================================================

func (s *Session) BookAppointment(ctx context.Context, req AppointmentRequest) (*Appointment, error) {
	resp, err := s.client.doJSON(ctx, http.MethodPost, "/api/appointments", s.token, req)
	if err != nil {
		return nil, err
	}

	var out Appointment
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListAppointments(ctx context.Context) ([]Appointment, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/appointments", s.token, nil, nil)
	if err != nil {
		return nil, err
	}

	var out []Appointment
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CancelAppointment(ctx context.Context, id string) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/api/appointments/"+url.PathEscape(id), s.token, nil, nil)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}
