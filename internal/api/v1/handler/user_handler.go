package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.handleMe)))
	mux.Handle("/users/me/premium", authMw(http.HandlerFunc(h.handlePremium)))
	mux.Handle("/users", authMw(http.HandlerFunc(h.listUsers)))
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPatch:
		h.updateProfile(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.UserResponseDTO{Email: email, Exists: false})
			return
		}
		// Reads degrade to "no data" rather than failing.
		h.logger.Error().Err(err).Str("email", email).Msg("Profile read failed")
		writeJSON(w, http.StatusOK, dto.UserResponseDTO{Email: email, Exists: false})
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	upd := model.UserUpdate{Name: req.Name, ImageURL: req.ImageURL, Country: req.Country}
	if err := h.userService.UpdateProfile(r.Context(), email, upd); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to update profile: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handlePremium(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]bool{"is_premium": h.userService.IsPremium(r.Context(), email)})
	case http.MethodPost:
		if err := h.userService.UpgradeToPremium(r.Context(), email); err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, "Failed to upgrade: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_premium": true})
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// listUsers is the admin directory listing.
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}
	if !h.userService.IsAdmin(r.Context(), email) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("User listing failed")
		writeJSON(w, http.StatusOK, []dto.UserResponseDTO{})
		return
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
