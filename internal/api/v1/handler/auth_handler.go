package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"
	"app/internal/util"
)

type AuthHandler struct {
	userService service.UserService
	validate    *validator.Validate
	jwtSecret   string
	logger      zerolog.Logger
}

func NewAuthHandler(userService service.UserService, v *validator.Validate, jwtSecret string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, validate: v, jwtSecret: jwtSecret, logger: logger}
}

// RegisterRoutes mounts v1 auth routes. These are the only unauthenticated
// endpoints.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/login", h.login)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user := &model.User{
		Email:   req.Email,
		Name:    req.Name,
		Country: req.Country,
	}
	created, err := h.userService.Register(r.Context(), user, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to register user: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.respondWithToken(w, created, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password produce the same response.
		http.Error(w, service.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	h.respondWithToken(w, user, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *model.User, status int) {
	token, err := util.GenerateJWT(u.Email, h.jwtSecret)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sign session token")
		http.Error(w, "Failed to sign session token", http.StatusInternalServerError)
		return
	}
	resp := dto.AuthResponse{Token: token, User: toUserDTO(u)}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func toUserDTO(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		Email:            u.Email,
		Name:             u.Name,
		ImageURL:         u.ImageURL,
		Country:          u.Country,
		IsPremium:        u.IsPremium,
		IsAdmin:          u.IsAdmin,
		RegistrationDate: u.RegistrationDate,
		Exists:           true,
	}
}
