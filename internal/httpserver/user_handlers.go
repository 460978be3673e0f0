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

func handleGetUser(userSvc *service.UserService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
			return
		}
		user, err := userSvc.GetProfile(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		// Verification documents are private to the owner and the admins.
		user.VerificationSelfie = nil
		user.ValidID = nil
		resolveUser(r.Context(), store, user)
		writeJSON(w, http.StatusOK, user)
	}
}

func handleListUsers(userSvc *service.UserService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var accountType *domain.AccountType
		if v := r.URL.Query().Get("account_type"); v != "" {
			t := domain.AccountType(v)
			accountType = &t
		}
		var badge *domain.Badge
		if v := r.URL.Query().Get("badge"); v != "" {
			b := domain.Badge(v)
			badge = &b
		}
		limit, offset := pageParams(r)

		users, err := userSvc.ListUsers(r.Context(), accountType, badge, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, u := range users {
			u.VerificationSelfie = nil
			u.ValidID = nil
			resolveUser(r.Context(), store, u)
		}
		writeJSON(w, http.StatusOK, users)
	}
}

type profileUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address   *string `json:"address"`
	Age       *int    `json:"age"`
	Number    *string `json:"number"`
}

func handleUpdateProfile(userSvc *service.UserService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		updated, err := userSvc.UpdateProfile(r.Context(), user.ID, domain.UserUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Address:   req.Address,
			Age:       req.Age,
			Number:    req.Number,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, updated)
		writeJSON(w, http.StatusOK, updated)
	}
}

// handleUploadProfileImage accepts a multipart form with a "file" field.
func handleUploadProfileImage(userSvc *service.UserService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
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

		path, err := uploadFile(r.Context(), store, fh, "profile_images")
		if err != nil {
			writeError(w, err)
			return
		}
		updated, err := userSvc.UpdateProfile(r.Context(), user.ID, domain.UserUpdate{ProfileImage: &path})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, updated)
		writeJSON(w, http.StatusOK, updated)
	}
}

// handleSubmitCredentials accepts a multipart form with "selfie" and
// "valid_id" file fields and queues the account for re-verification.
func handleSubmitCredentials(userSvc *service.UserService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
			return
		}

		var selfiePath, validIDPath *string
		if _, fh, err := r.FormFile("selfie"); err == nil {
			p, err := uploadFile(r.Context(), store, fh, "credentials")
			if err != nil {
				writeError(w, err)
				return
			}
			selfiePath = &p
		}
		if _, fh, err := r.FormFile("valid_id"); err == nil {
			p, err := uploadFile(r.Context(), store, fh, "credentials")
			if err != nil {
				writeError(w, err)
				return
			}
			validIDPath = &p
		}

		updated, err := userSvc.SubmitCredentials(r.Context(), user.ID, selfiePath, validIDPath)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, updated)
		writeJSON(w, http.StatusOK, updated)
	}
}

// pageParams reads limit/offset query parameters, leaving clamping to the
// service layer.
func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
