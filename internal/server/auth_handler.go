package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if _, err := decodeJSON(w, r, &req, false); err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		failResponse(w, r, validationError(err), "Invalid request")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		failResponse(w, r, err, "Failed to register user")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if _, err := decodeJSON(w, r, &req, false); err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		failResponse(w, r, validationError(err), "Invalid request")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		failResponse(w, r, err, "Failed to log in")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// UpdatePassword changes the signed-in user's password.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req types.UpdatePasswordRequest
	if _, err := decodeJSON(w, r, &req, false); err != nil {
		failResponse(w, r, err, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		failResponse(w, r, validationError(err), "Invalid request")
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		failResponse(w, r, err, "Failed to update password")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to generate token")
		errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}
