package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"helplink/internal/domain"
	"helplink/internal/service"
	"helplink/internal/storage"
)

type supporterCreateRequest struct {
	PostID      *int64  `json:"post_id"`
	SupportType string  `json:"support_type"`
	Message     *string `json:"message"`
}

func handleCreateSupporter(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req supporterCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		sp, err := postSvc.CreateSupporter(r.Context(), user.ID, service.SupporterCreateInput{
			PostID:      req.PostID,
			SupportType: domain.SupportType(req.SupportType),
			Message:     req.Message,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveSupporter(r.Context(), store, sp)
		writeJSON(w, http.StatusCreated, sp)
	}
}

func handleListSupporters(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f domain.SupporterFilter
		if v := r.URL.Query().Get("post_id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				f.PostID = &id
			}
		}
		if v := r.URL.Query().Get("user_id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				f.UserID = &id
			}
		}
		if v := r.URL.Query().Get("support_type"); v != "" {
			t := domain.SupportType(v)
			f.SupportType = &t
		}
		limit, offset := pageParams(r)

		supporters, err := postSvc.ListSupporters(r.Context(), f, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, sp := range supporters {
			resolveSupporter(r.Context(), store, sp)
		}
		writeJSON(w, http.StatusOK, supporters)
	}
}

type supporterUpdateRequest struct {
	Message *string `json:"message"`
}

func handleUpdateSupporter(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		supporterID, err := supporterIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid supporter id"})
			return
		}
		var req supporterUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		sp, err := postSvc.UpdateSupporter(r.Context(), supporterID, user.ID, domain.SupporterUpdate{
			Message: req.Message,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveSupporter(r.Context(), store, sp)
		writeJSON(w, http.StatusOK, sp)
	}
}

// handleAddSupporterProof accepts a multipart form with a "file" field.
func handleAddSupporterProof(postSvc *service.PostService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		supporterID, err := supporterIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid supporter id"})
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
			return
		}
		_, fh, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
			return
		}

		path, err := uploadFile(r.Context(), store, fh, "supporter_proofs")
		if err != nil {
			writeError(w, err)
			return
		}
		sp, err := postSvc.AddSupporterProof(r.Context(), supporterID, user.ID, path)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveSupporter(r.Context(), store, sp)
		writeJSON(w, http.StatusCreated, sp)
	}
}

func supporterIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "supporterID"), 10, 64)
}
