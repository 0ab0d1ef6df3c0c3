package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"userhub/internal/api/middleware"
	"userhub/internal/app/service"
	"userhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterPublicRoutes mounts the unauthenticated lookup endpoints.
func (h *UserHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/all", h.list)
	r.Get("/single/{username}", h.single)
}

// RegisterProtectedRoutes mounts endpoints requiring a bearer token.
func (h *UserHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Put("/{uid}", h.update)
	r.Delete("/{uid}", h.delete)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	user, err := h.userService.CurrentUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Token subject no longer exists in the store.
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrAuthenticationFailed.Error())
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user.Read())
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	users, err := h.userService.List(r.Context(), offset, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

// single serves the read-through cached lookup. An unknown username yields
// 200 with a null body rather than an error.
func (h *UserHandler) single(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.RespondWithJSON(w, http.StatusOK, nil)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req service.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.Update(r.Context(), uid, req)
	if err != nil {
		if field := common.ConflictField(err); field != "" {
			common.RespondWithJSON(w, http.StatusConflict, common.ConflictResponse{Msg: err.Error(), Field: field})
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), uid); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
