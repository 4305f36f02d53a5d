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

type CommunityHandler struct {
	communityService service.CommunityService
	validate         *validator.Validate
	logger           zerolog.Logger
}

func NewCommunityHandler(communityService service.CommunityService, v *validator.Validate, logger zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{communityService: communityService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 community routes
func (h *CommunityHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/community/forums", authMw(http.HandlerFunc(h.forums)))
	mux.Handle("/community/posts", authMw(http.HandlerFunc(h.handlePosts)))
	mux.Handle("/community/comments", authMw(http.HandlerFunc(h.handleComments)))
	mux.Handle("/community/comments/today-count", authMw(http.HandlerFunc(h.todayCount)))
	mux.Handle("/community/users", authMw(http.HandlerFunc(h.userInfo)))
}

func (h *CommunityHandler) forums(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	forums, err := h.communityService.Forums(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Forum catalog read failed")
		writeJSON(w, http.StatusOK, []model.Forum{})
		return
	}
	writeJSON(w, http.StatusOK, forums)
}

func (h *CommunityHandler) handlePosts(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		forumID := r.URL.Query().Get("forum_id")
		if forumID == "" {
			http.Error(w, "forum_id query parameter is required", http.StatusBadRequest)
			return
		}
		posts, err := h.communityService.ForumPosts(r.Context(), forumID)
		if err != nil {
			h.logger.Error().Err(err).Str("forum_id", forumID).Msg("Post listing failed")
			writeJSON(w, http.StatusOK, []model.Post{})
			return
		}
		writeJSON(w, http.StatusOK, posts)

	case http.MethodPost:
		var req dto.PostCreateDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		post, err := h.communityService.CreatePost(r.Context(), email, req.ForumID, req.Title, req.Content)
		if err != nil {
			http.Error(w, "Failed to create post: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, post)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CommunityHandler) handleComments(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		postID := r.URL.Query().Get("post_id")
		if postID == "" {
			http.Error(w, "post_id query parameter is required", http.StatusBadRequest)
			return
		}
		comments, err := h.communityService.PostComments(r.Context(), postID)
		if err != nil {
			h.logger.Error().Err(err).Str("post_id", postID).Msg("Comment listing failed")
			writeJSON(w, http.StatusOK, []model.Comment{})
			return
		}
		writeJSON(w, http.StatusOK, comments)

	case http.MethodPost:
		var req dto.CommentCreateDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		comment, err := h.communityService.CreateComment(r.Context(), email, req.PostID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDailyCommentLimitReached):
				http.Error(w, err.Error(), http.StatusTooManyRequests)
			default:
				http.Error(w, "Failed to create comment: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusCreated, comment)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CommunityHandler) todayCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || email == "" {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	count, err := h.communityService.TodayCommentCount(r.Context(), email)
	if err != nil {
		h.logger.Error().Err(err).Str("email", email).Msg("Comment count failed")
		writeJSON(w, http.StatusOK, dto.CommentCountDTO{Count: 0})
		return
	}
	writeJSON(w, http.StatusOK, dto.CommentCountDTO{Count: count})
}

// userInfo resolves the lightweight profile shown next to posts and comments.
func (h *CommunityHandler) userInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}

	info, err := h.communityService.UserInfo(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to resolve user: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, info)
}
