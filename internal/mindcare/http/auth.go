package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	AuthService *service.AuthService
	TokenTTL    time.Duration
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Register
//	@Description	Creates an account. Role defaults to USER; only "ADMIN" (any case) grants admin.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mindsdk.RegisterRequest		true	"username, email, password, role"
//	@Success		201		{object}	mindsdk.RegisterResponse	"user_id, username, role"
//	@Failure		400		{object}	mindsdk.ErrorResponse		"validation_error"
//	@Failure		409		{object}	mindsdk.ErrorResponse		"duplicate_username or duplicate_email"
//	@Failure		500		{object}	mindsdk.ErrorResponse		"server_error"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req mindsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, mindsdk.RegisterResponse{
		Message:  "user registered",
		UserID:   user.UserID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Login
//	@Description	Exchanges a username (or email) and password for a bearer token valid for ten minutes.
//	@Description	Unknown users and wrong passwords get the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mindsdk.LoginRequest	true	"username_or_email, password"
//	@Success		200		{object}	mindsdk.LoginResponse	"token, token_type, expires_in, username, role"
//	@Failure		400		{object}	mindsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	mindsdk.ErrorResponse	"invalid_credentials"
//	@Failure		500		{object}	mindsdk.ErrorResponse	"server_error"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req mindsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mindsdk.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: int(h.TokenTTL.Seconds()),
		Username:  res.Username,
		Role:      string(res.Role),
	})
}

// HandleMe handles GET /api/me
//
//	@Summary		Current identity
//	@Description	Returns the identity resolved from the bearer token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	mindsdk.MeResponse		"user_id, username, role"
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Router			/api/me [get].
func HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mindsdk.MeResponse{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
	})
}
