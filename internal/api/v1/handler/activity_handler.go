package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
)

type ActivityHandler struct {
	activityService service.ActivityService
	validate        *validator.Validate
	logger          zerolog.Logger
}

func NewActivityHandler(activityService service.ActivityService, v *validator.Validate, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 activity routes
func (h *ActivityHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/activities", authMw(http.HandlerFunc(h.handleActivities)))
	mux.Handle("/activities/shared", authMw(http.HandlerFunc(h.sharedFeed)))
}

func (h *ActivityHandler) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.feed(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ActivityHandler) feed(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	feed, err := h.activityService.Feed(r.Context(), email, parseLimit(r))
	if err != nil {
		h.logger.Error().Err(err).Str("email", email).Msg("Feed read failed")
		writeJSON(w, http.StatusOK, dto.ActivityFeedDTO{Activities: []dto.ActivityDTO{}})
		return
	}
	writeJSON(w, http.StatusOK, toFeedDTO(feed))
}

func (h *ActivityHandler) sharedFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	feed, err := h.activityService.SharedFeed(r.Context(), email, parseLimit(r))
	if err != nil {
		h.logger.Error().Err(err).Str("email", email).Msg("Shared feed read failed")
		writeJSON(w, http.StatusOK, dto.ActivityFeedDTO{Activities: []dto.ActivityDTO{}})
		return
	}
	writeJSON(w, http.StatusOK, toFeedDTO(feed))
}

func (h *ActivityHandler) create(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ActivityCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	activity := &model.Activity{
		Timestamp: req.Timestamp,
		UserEmail: email,
		BabyName:  req.BabyName,
		Type:      req.Type,
		Details:   req.Details,
	}
	if err := h.activityService.Log(r.Context(), activity); err != nil {
		switch {
		case errors.Is(err, service.ErrMonthlyLimitReached):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "Failed to log activity: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toActivityDTO(activity))
}

func (h *ActivityHandler) update(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ActivityUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	activity := &model.Activity{
		Timestamp: req.Timestamp,
		UserEmail: email,
		BabyName:  req.BabyName,
		Type:      req.Type,
		Details:   req.Details,
	}
	if err := h.activityService.Update(r.Context(), email, req.OriginalTimestamp, activity); err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to update activity: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, toActivityDTO(activity))
}

func (h *ActivityHandler) delete(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	timestamp := r.URL.Query().Get("timestamp")
	if timestamp == "" {
		http.Error(w, "timestamp query parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.activityService.Delete(r.Context(), email, timestamp); err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to delete activity: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLimit(r *http.Request) int {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}

func toActivityDTO(a *model.Activity) dto.ActivityDTO {
	return dto.ActivityDTO{
		Timestamp: a.Timestamp,
		UserEmail: a.UserEmail,
		BabyName:  a.BabyName,
		Type:      a.Type,
		Details:   a.Details,
	}
}

func toFeedDTO(feed *service.ActivityFeed) dto.ActivityFeedDTO {
	out := dto.ActivityFeedDTO{
		Activities:   make([]dto.ActivityDTO, 0, len(feed.Activities)),
		MonthlyCount: feed.MonthlyCount,
	}
	for i := range feed.Activities {
		out.Activities = append(out.Activities, toActivityDTO(&feed.Activities[i]))
	}
	return out
}
