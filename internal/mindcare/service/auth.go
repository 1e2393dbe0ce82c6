package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/cryptox"
	"github.com/aussiebroadwan/mindcare/pkg/idx"
	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

const (
	MaxUsernameLength = 64
	MaxEmailLength    = 254
	MaxPasswordBytes  = 256
)

// Auth event names reported to an AuthObserver.
const (
	EventRegister = "register"
	EventLogin    = "login"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// TokenIssuer mints session tokens. *jwtx.Codec satisfies it.
type TokenIssuer interface {
	Issue(subject, role string) (jwtx.Token, error)
}

// AuthObserver receives one call per register/login attempt.
type AuthObserver interface {
	ObserveAuth(event, outcome string)
}

type AuthService struct {
	Store    store.Store
	Hasher   *cryptox.PasswordHasher
	Tokens   TokenIssuer
	Observer AuthObserver

	// Now defaults to time.Now.
	Now func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// RegisteredUser is the public view of a freshly created account.
type RegisteredUser struct {
	UserID   string
	Username string
	Role     domain.Role
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Role      domain.Role
}

// Register validates the input, hashes the password and persists a new
// credential record. Uniqueness is decided by the store's insert, so two
// concurrent registrations of the same username produce exactly one account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (RegisteredUser, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if err := validateRegistration(username, email, in.Password); err != nil {
		s.observe(EventRegister, OutcomeRejected)
		return RegisteredUser{}, err
	}

	// 2. Hash the password
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		s.observe(EventRegister, OutcomeError)
		return RegisteredUser{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.NormalizeRole(in.Role),
		CreatedAt:    now(s.Now).UTC(),
	}

	// 3. Persist; the unique constraints are the only uniqueness check
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			dup, cerr := s.classifyDuplicate(ctx, username)
			if cerr != nil {
				log.Error("failed to classify duplicate registration", slog.Any("error", cerr))
				s.observe(EventRegister, OutcomeError)
				return RegisteredUser{}, cerr
			}
			log.Info("registration rejected", slog.String("reason", dup.Error()))
			s.observe(EventRegister, OutcomeRejected)
			return RegisteredUser{}, dup
		}
		log.Error("failed to create user", slog.Any("error", err))
		s.observe(EventRegister, OutcomeError)
		return RegisteredUser{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	s.observe(EventRegister, OutcomeSuccess)

	return RegisteredUser{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Login authenticates by username, falling back to email, and issues a
// session token. Unknown identities and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	user, found, err := s.lookup(ctx, strings.TrimSpace(usernameOrEmail))
	if err != nil {
		log.Error("failed to look up user", slog.Any("error", err))
		s.observe(EventLogin, OutcomeError)
		return LoginResult{}, err
	}

	if !found {
		// Burn the same hashing time as a real comparison
		s.Hasher.VerifyDummy(password)
		s.observe(EventLogin, OutcomeRejected)
		return LoginResult{}, ErrInvalidCredentials
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		log.Info("login rejected", slog.String("user_id", user.ID))
		s.observe(EventLogin, OutcomeRejected)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.Username, string(user.Role))
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		s.observe(EventLogin, OutcomeError)
		return LoginResult{}, err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	s.observe(EventLogin, OutcomeSuccess)

	return LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}

// lookup tries the username first and the email second.
func (s *AuthService) lookup(ctx context.Context, identifier string) (domain.User, bool, error) {
	if identifier == "" {
		return domain.User{}, false, nil
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, identifier)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, err
	}

	user, err = s.Store.Users().GetUserByEmail(ctx, normalizeEmail(identifier))
	if err == nil {
		return user, true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, nil
	}
	return domain.User{}, false, err
}

// classifyDuplicate runs after the insert already failed. If the username is
// taken it wins, otherwise the email must have collided.
func (s *AuthService) classifyDuplicate(ctx context.Context, username string) (error, error) {
	_, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrDuplicateUsername, nil
	case errors.Is(err, store.ErrNotFound):
		return ErrDuplicateEmail, nil
	default:
		return nil, err
	}
}

func (s *AuthService) observe(event, outcome string) {
	if s.Observer != nil {
		s.Observer.ObserveAuth(event, outcome)
	}
}

func validateRegistration(username, email, password string) error {
	switch {
	case username == "":
		return validationError("username is required")
	case email == "":
		return validationError("email is required")
	case password == "":
		return validationError("password is required")
	}

	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return validationError("username must be at most %d characters", MaxUsernameLength)
	}
	if strings.ContainsFunc(username, isControl) {
		return validationError("username contains invalid characters")
	}
	if len(email) > MaxEmailLength {
		return validationError("email must be at most %d characters", MaxEmailLength)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return validationError("email is not a valid address")
	}
	if len(password) > MaxPasswordBytes {
		return validationError("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
