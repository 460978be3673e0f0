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

func handleAdminStatistics(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := adminSvc.Statistics(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleAdminRecentActivity(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := adminSvc.RecentActivity(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

type badgeRequest struct {
	Badge string `json:"badge"`
}

func handleAdminSetBadge(adminSvc *service.AdminService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
			return
		}
		var req badgeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		user, err := adminSvc.SetUserBadge(r.Context(), userID, domain.Badge(req.Badge))
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, user)
		writeJSON(w, http.StatusOK, user)
	}
}

type accountTypeRequest struct {
	AccountType string `json:"account_type"`
}

func handleAdminSetAccountType(adminSvc *service.AdminService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
			return
		}
		var req accountTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		user, err := adminSvc.SetUserAccountType(r.Context(), userID, domain.AccountType(req.AccountType))
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, user)
		writeJSON(w, http.StatusOK, user)
	}
}

func handleAdminSetPostStatus(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		var req postStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := adminSvc.SetPostStatus(r.Context(), postID, domain.PostStatus(req.Status)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleAdminListComments(adminSvc *service.AdminService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *domain.CommentStatus
		if v := r.URL.Query().Get("status"); v != "" {
			s := domain.CommentStatus(v)
			status = &s
		}
		limit, offset := pageParams(r)

		comments, err := adminSvc.ListComments(r.Context(), status, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, c := range comments {
			resolveComment(r.Context(), store, c)
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

type commentStatusRequest struct {
	Status string `json:"status"`
}

func handleAdminSetCommentStatus(adminSvc *service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid comment id"})
			return
		}
		var req commentStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := adminSvc.SetCommentStatus(r.Context(), commentID, domain.CommentStatus(req.Status)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

type verificationRequest struct {
	VerificationStatus string `json:"verification_status"`
}

func handleAdminSetDonationVerification(adminSvc *service.AdminService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donationID, err := donationIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid donation id"})
			return
		}
		var req verificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		d, err := adminSvc.SetDonationVerification(r.Context(), donationID, domain.VerificationStatus(req.VerificationStatus))
		if err != nil {
			writeError(w, err)
			return
		}
		resolveDonation(r.Context(), store, d)
		writeJSON(w, http.StatusOK, d)
	}
}
