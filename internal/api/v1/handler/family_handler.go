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

type FamilyHandler struct {
	familyService service.FamilyService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewFamilyHandler(familyService service.FamilyService, v *validator.Validate, logger zerolog.Logger) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 family routes
func (h *FamilyHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/family", authMw(http.HandlerFunc(h.handleFamily)))
	mux.Handle("/family/baby-name", authMw(http.HandlerFunc(h.renameBaby)))
	mux.Handle("/family/invites", authMw(http.HandlerFunc(h.invite)))
	mux.Handle("/family/members/role", authMw(http.HandlerFunc(h.setMemberRole)))
	mux.Handle("/family/me/role", authMw(http.HandlerFunc(h.setMyRole)))
}

func (h *FamilyHandler) handleFamily(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		info, err := h.familyService.Info(r.Context(), email)
		if err != nil {
			h.logger.Error().Err(err).Str("email", email).Msg("Family info read failed")
			writeJSON(w, http.StatusOK, dto.FamilyInfoDTO{Exists: false, Members: []dto.FamilyMemberDTO{}})
			return
		}
		writeJSON(w, http.StatusOK, toFamilyInfoDTO(info))

	case http.MethodPost:
		var req dto.FamilyCreateDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		info, err := h.familyService.Create(r.Context(), email, req.BabyName, req.Role)
		if err != nil {
			http.Error(w, "Failed to create family: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, toFamilyInfoDTO(info))

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FamilyHandler) renameBaby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.FamilyRenameDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.familyService.RenameBaby(r.Context(), email, req.BabyName); err != nil {
		switch {
		case errors.Is(err, service.ErrNoFamily):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrPartiallyApplied):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, "Failed to rename: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) invite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.FamilyInviteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.familyService.Invite(r.Context(), email, req.Email, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrInviteeNotRegistered):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, service.ErrAlreadyFamilyMember):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to invite: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) setMemberRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.FamilyRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil || req.Email == "" {
		http.Error(w, "Validation failed: email and role are required", http.StatusBadRequest)
		return
	}

	if err := h.familyService.SetMemberRole(r.Context(), email, req.Email, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrNoFamily), errors.Is(err, service.ErrFamilyMemberNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrNotFamilyOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "Failed to update role: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) setMyRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.FamilyRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.familyService.SetMyRole(r.Context(), email, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrNoFamily):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to update role: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toFamilyInfoDTO(info *model.FamilyInfo) dto.FamilyInfoDTO {
	out := dto.FamilyInfoDTO{
		Exists:   info.Exists,
		FamilyID: info.FamilyID,
		BabyName: info.BabyName,
		Members:  make([]dto.FamilyMemberDTO, 0, len(info.Members)),
		UserRole: info.UserRole,
		IsOwner:  info.IsOwner,
	}
	for _, m := range info.Members {
		out.Members = append(out.Members, dto.FamilyMemberDTO{
			Email:   m.Email,
			Name:    m.Name,
			Role:    m.Role,
			IsOwner: m.IsOwner,
		})
	}
	return out
}
