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

type donationCreateRequest struct {
	PostID  *int64  `json:"post_id"`
	Amount  float64 `json:"amount"`
	Message *string `json:"message"`
}

func handleCreateDonation(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req donationCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		d, err := postSvc.CreateDonation(r.Context(), user.ID, service.DonationCreateInput{
			PostID:  req.PostID,
			Amount:  req.Amount,
			Message: req.Message,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveDonation(r.Context(), store, d)
		writeJSON(w, http.StatusCreated, d)
	}
}

func handleListDonations(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f domain.DonationFilter
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
		if v := r.URL.Query().Get("verification_status"); v != "" {
			s := domain.VerificationStatus(v)
			f.VerificationStatus = &s
		}
		limit, offset := pageParams(r)

		donations, err := postSvc.ListDonations(r.Context(), f, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, d := range donations {
			resolveDonation(r.Context(), store, d)
		}
		writeJSON(w, http.StatusOK, donations)
	}
}

type donationUpdateRequest struct {
	Amount  *float64 `json:"amount"`
	Message *string  `json:"message"`
}

func handleUpdateDonation(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		donationID, err := donationIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid donation id"})
			return
		}
		var req donationUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		d, err := postSvc.UpdateDonation(r.Context(), donationID, user.ID, domain.DonationUpdate{
			Amount:  req.Amount,
			Message: req.Message,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveDonation(r.Context(), store, d)
		writeJSON(w, http.StatusOK, d)
	}
}

// handleAddDonationProof accepts a multipart form with a "file" field.
func handleAddDonationProof(postSvc *service.PostService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		donationID, err := donationIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid donation id"})
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

		path, err := uploadFile(r.Context(), store, fh, "donation_proofs")
		if err != nil {
			writeError(w, err)
			return
		}
		d, err := postSvc.AddDonationProof(r.Context(), donationID, user.ID, path)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveDonation(r.Context(), store, d)
		writeJSON(w, http.StatusCreated, d)
	}
}

func donationIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "donationID"), 10, 64)
}
