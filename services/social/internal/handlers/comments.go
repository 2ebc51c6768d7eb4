package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/social-platform/internal/platform/api"
	"github.com/example/social-platform/internal/platform/auth"
	"github.com/example/social-platform/internal/platform/httpserver"
	"github.com/example/social-platform/services/social/internal/comments"
)

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

type commentsPageResponse struct {
	Comments []*comments.CommentView `json:"comments"`
	Total    int                     `json:"total"`
	HasMore  bool                    `json:"has_more"`
}

type repliesPageResponse struct {
	Replies []*comments.CommentView `json:"replies"`
	Total   int                     `json:"total"`
	HasMore bool                    `json:"has_more"`
}

type treeResponse struct {
	Comments []*comments.CommentView `json:"comments"`
}

// writeServiceError maps core error kinds onto transport status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	switch {
	case errors.Is(err, comments.ErrValidation):
		api.BadRequest(w, "VALIDATION", err.Error(), rid, nil)
	case errors.Is(err, comments.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", err.Error(), rid)
	case errors.Is(err, comments.ErrForbidden):
		api.Forbidden(w, "FORBIDDEN", err.Error(), rid)
	case errors.Is(err, comments.ErrStoreUnavailable):
		api.Unavailable(w, "STORE_UNAVAILABLE", "store unavailable", rid)
	default:
		api.Internal(w, rid)
	}
}

// maxPageLimit bounds the page size a client may request.
const maxPageLimit = 100

func pageParams(r *http.Request) (page, limit int) {
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			// Oversized requests clamp rather than fall back to the default.
			if n > maxPageLimit {
				n = maxPageLimit
			}
			limit = n
		}
	}
	return page, limit
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		rid := httpserver.RequestIDFromContext(r.Context())
		api.BadRequest(w, "MISSING_ID", name+" is required", rid, nil)
		return "", false
	}
	return v, true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		rid := httpserver.RequestIDFromContext(r.Context())
		api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
		return "", false
	}
	return userID, true
}

// ListComments handles GET /v1/posts/{post_id}/comments
func ListComments(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := requireParam(w, r, "post_id")
		if !ok {
			return
		}
		page, limit := pageParams(r)

		p, err := svc.ListComments(r.Context(), postID, page, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, commentsPageResponse{Comments: p.Items, Total: p.Total, HasMore: p.HasMore})
	}
}

// ListReplies handles GET /v1/comments/{comment_id}/replies
func ListReplies(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}
		page, limit := pageParams(r)

		p, err := svc.ListReplies(r.Context(), commentID, page, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, repliesPageResponse{Replies: p.Items, Total: p.Total, HasMore: p.HasMore})
	}
}

// GetFullTree handles GET /v1/posts/{post_id}/comments/tree
func GetFullTree(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := requireParam(w, r, "post_id")
		if !ok {
			return
		}
		tree, err := svc.FullTree(r.Context(), postID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, treeResponse{Comments: tree})
	}
}

// GetSubtree handles GET /v1/comments/{comment_id}/tree
func GetSubtree(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}
		node, err := svc.Subtree(r.Context(), commentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, node)
	}
}

// CreateComment handles POST /v1/posts/{post_id}/comments
func CreateComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		postID, ok := requireParam(w, r, "post_id")
		if !ok {
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			rid := httpserver.RequestIDFromContext(r.Context())
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		created, err := svc.Create(r.Context(), postID, userID, req.Content, req.ParentID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// UpdateComment handles PUT /v1/comments/{comment_id}
func UpdateComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}

		var req updateCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			rid := httpserver.RequestIDFromContext(r.Context())
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		updated, err := svc.Edit(r.Context(), commentID, userID, req.Content)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteComment handles DELETE /v1/comments/{comment_id}
func DeleteComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), commentID, userID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LikeComment handles POST /v1/comments/{comment_id}/like
func LikeComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}

		liked, err := svc.Like(r.Context(), commentID, userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, liked)
	}
}

// UnlikeComment handles DELETE /v1/comments/{comment_id}/like
func UnlikeComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		commentID, ok := requireParam(w, r, "comment_id")
		if !ok {
			return
		}

		unliked, err := svc.Unlike(r.Context(), commentID, userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, unliked)
	}
}
