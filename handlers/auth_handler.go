package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/services"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the login payload; Token and AccessToken carry the same
// value, kept in both fields for client compatibility
type LoginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

// Authenticator defines the interface for login and registration operations
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	RegisterStudent(ctx context.Context, req services.RegisterStudentRequest) error
	RegisterTeacher(ctx context.Context, req services.RegisterTeacherRequest) error
}

// AuthHandler handles login and registration HTTP requests
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login. Besides the body payload the token
// is mirrored into the Authorization and token response headers, which the
// CORS layer exposes to browser clients.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+result.Token)
	w.Header().Set("token", result.Token)

	_ = utils.WriteSuccess(w, LoginResponse{
		Token:       result.Token,
		AccessToken: result.Token,
		Role:        result.Role,
		Username:    result.Username,
	})
}

// HandleRegisterStudent handles POST /auth/register/student
func (h *AuthHandler) HandleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.RegisterStudent(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, nil)
}

// HandleRegisterTeacher handles POST /auth/register/teacher
func (h *AuthHandler) HandleRegisterTeacher(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterTeacherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.RegisterTeacher(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, nil)
}
