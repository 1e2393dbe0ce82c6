package mindsdk

import (
	"encoding/json"
	"time"
)

// ErrorResponse is the wire shape of APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Auth
// ============================================================================

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Role is optional. Only "ADMIN" (any case) grants admin.
	Role string `json:"role,omitempty"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest accepts the identifier as username_or_email, usernameOrEmail
// or username.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

func (r *LoginRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		UsernameOrEmail string `json:"username_or_email"`
		CamelCase       string `json:"usernameOrEmail"`
		Username        string `json:"username"`
		Password        string `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Password = raw.Password
	switch {
	case raw.UsernameOrEmail != "":
		r.UsernameOrEmail = raw.UsernameOrEmail
	case raw.CamelCase != "":
		r.UsernameOrEmail = raw.CamelCase
	default:
		r.UsernameOrEmail = raw.Username
	}
	return nil
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// MeResponse is the identity the server resolved for the bearer token.
type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ============================================================================
// Journal
// ============================================================================

type JournalEntryRequest struct {
	Content       string   `json:"content"`
	Label         *string  `json:"label,omitempty"`
	SuicidalScore *float64 `json:"suicidalScore,omitempty"`
}

type JournalEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Content       string    `json:"content"`
	Label         *string   `json:"label"`
	SuicidalScore *float64  `json:"suicidalScore"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ============================================================================
// Appointments
// ============================================================================

type AppointmentRequest struct {
	DoctorName      string `json:"doctorName"`
	Specialization  string `json:"specialization,omitempty"`
	AppointmentDate string `json:"appointmentDate"` // YYYY-MM-DD
	TimeSlot        string `json:"timeSlot"`
	Note            string `json:"note,omitempty"`
}

type Appointment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	DoctorName      string    `json:"doctorName"`
	Specialization  string    `json:"specialization"`
	AppointmentDate string    `json:"appointmentDate"`
	TimeSlot        string    `json:"timeSlot"`
	Note            string    `json:"note"`
	CreatedAt       time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
