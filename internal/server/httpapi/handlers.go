package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	users  *services.UserService
	files  *services.FileService
	logger logging.Logger
}

func NewHandler(users *services.UserService, files *services.FileService, logger logging.Logger) *Handler {
	return &Handler{users: users, files: files, logger: logger.With("module", "httpapi")}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", h.createUser)
		r.Get("/users", h.listUsers)
		r.Get("/users/{userId}", h.getUser)
		r.Delete("/users/{userId}", h.deleteUser)

		r.Post("/files/{filename}", h.uploadFile)
	})
}

// identity resolves the caller once per request. (nil, nil) is the anonymous
// caller; whether that is acceptable is each endpoint's decision.
func (h *Handler) identity(r *http.Request) (*auth.IdentityClaims, error) {
	return auth.IdentityFromHeader(r.Header.Get("Authorization"))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity(r)
	if err != nil {
		writeMappedErr(w, err)
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "request body is required and must be valid JSON")
		return
	}

	if !auth.CanCreateUser(id) {
		writeErr(w, http.StatusForbidden, "you are not authorized to create users")
		return
	}
	if !auth.CanCreateUsername(id, req.Username) {
		writeErr(w, http.StatusForbidden, "you are not authorized to create this username")
		return
	}

	user, err := h.users.Create(ctx, &req)
	if err != nil {
		h.logger.Error(ctx, "create user failed", "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity(r)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID := chi.URLParam(r, "userId")
	if strings.TrimSpace(userID) == "" {
		writeErr(w, http.StatusBadRequest, "userId is required in path")
		return
	}

	if !auth.CanReadUser(id, userID) {
		writeErr(w, http.StatusForbidden, "you are not authorized to view users")
		return
	}

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeErr(w, http.StatusNotFound, fmt.Sprintf("user not found with userId: %s", userID))
			return
		}
		h.logger.Error(ctx, "get user failed", "userId", userID, "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type listResponse struct {
	Users            []*models.User `json:"users"`
	Count            int            `json:"count"`
	LastEvaluatedKey string         `json:"lastEvaluatedKey,omitempty"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity(r)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !auth.CanListUsers(id) {
		writeErr(w, http.StatusForbidden, "you are not authorized to list users")
		return
	}

	limit := int32(services.ListLimitDefault)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = int32(parsed)
	}
	cursor := r.URL.Query().Get("lastEvaluatedKey")

	page, next, err := h.users.List(ctx, limit, cursor)
	if err != nil {
		h.logger.Error(ctx, "list users failed", "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	if page == nil {
		page = []*models.User{}
	}
	writeJSON(w, http.StatusOK, listResponse{Users: page, Count: len(page), LastEvaluatedKey: next})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity(r)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID := chi.URLParam(r, "userId")
	if strings.TrimSpace(userID) == "" {
		writeErr(w, http.StatusBadRequest, "userId is required in path")
		return
	}

	// The decision needs the target's current username, so resolve the
	// record before the gate.
	user, err := h.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeErr(w, http.StatusNotFound, fmt.Sprintf("user not found with userId: %s", userID))
			return
		}
		h.logger.Error(ctx, "delete lookup failed", "userId", userID, "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	if !auth.CanDeleteUser(id, user.Username) {
		writeErr(w, http.StatusForbidden, "you are not authorized to delete this user")
		return
	}

	if err := h.users.Delete(ctx, user); err != nil {
		h.logger.Error(ctx, "delete user failed", "userId", userID, "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
		"userId":  userID,
	})
}

func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.identity(r)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "authentication required to upload files")
		return
	}
	if !auth.CanUploadFile(id) {
		writeErr(w, http.StatusForbidden, "you are not authorized to upload files")
		return
	}

	filename := chi.URLParam(r, "filename")

	body, err := io.ReadAll(io.LimitReader(r.Body, services.MaxUploadBytes+1))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	result, err := h.files.Upload(ctx, id, filename, r.Header.Get("Content-Type"), body)
	if err != nil {
		h.logger.Error(ctx, "upload failed", "filename", filename, "error", err.Error())
		writeMappedErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "File uploaded successfully",
		"filename":    result.Filename,
		"s3Key":       result.S3Key,
		"size":        result.Size,
		"contentType": result.ContentType,
	})
}
