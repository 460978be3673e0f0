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

// handleCreatePost accepts a multipart form: text fields plus optional
// "photos" and "videos" file lists.
func handleCreatePost(postSvc *service.PostService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		in := service.PostCreateInput{}
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
				return
			}
			in.PostType = domain.PostType(r.FormValue("post_type"))
			in.Title = r.FormValue("title")
			in.Description = optionalFormValue(r, "description")
			in.Address = optionalFormValue(r, "address")
			in.Latitude = optionalFormFloat(r, "latitude")
			in.Longitude = optionalFormFloat(r, "longitude")

			photos, err := uploadAll(r.Context(), store, r, "photos", "post_photos")
			if err != nil {
				writeError(w, err)
				return
			}
			videos, err := uploadAll(r.Context(), store, r, "videos", "post_videos")
			if err != nil {
				writeError(w, err)
				return
			}
			in.Photos, in.Videos = photos, videos
		} else {
			var req struct {
				PostType    string   `json:"post_type"`
				Title       string   `json:"title"`
				Description *string  `json:"description"`
				Address     *string  `json:"address"`
				Latitude    *float64 `json:"latitude"`
				Longitude   *float64 `json:"longitude"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
				return
			}
			in.PostType = domain.PostType(req.PostType)
			in.Title = req.Title
			in.Description = req.Description
			in.Address = req.Address
			in.Latitude = req.Latitude
			in.Longitude = req.Longitude
		}

		post, err := postSvc.CreatePost(r.Context(), user.ID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		resolvePost(r.Context(), store, post)
		writeJSON(w, http.StatusCreated, post)
	}
}

func handleListPosts(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f domain.PostFilter
		if v := r.URL.Query().Get("post_type"); v != "" {
			t := domain.PostType(v)
			f.PostType = &t
		}
		if v := r.URL.Query().Get("status"); v != "" {
			s := domain.PostStatus(v)
			f.Status = &s
		}
		if v := r.URL.Query().Get("user_id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				f.UserID = &id
			}
		}
		limit, offset := pageParams(r)
		viewerID := viewerIDParam(r)

		posts, err := postSvc.ListPosts(r.Context(), f, viewerID, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, p := range posts {
			resolvePost(r.Context(), store, p)
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func handleGetPost(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		post, err := postSvc.GetPost(r.Context(), postID, viewerIDParam(r))
		if err != nil {
			writeError(w, err)
			return
		}
		resolvePost(r.Context(), store, post)
		writeJSON(w, http.StatusOK, post)
	}
}

type postUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func handleUpdatePost(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		var req postUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		post, err := postSvc.UpdatePost(r.Context(), postID, user.ID, domain.PostUpdate{
			Title:       req.Title,
			Description: req.Description,
			Address:     req.Address,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolvePost(r.Context(), store, post)
		writeJSON(w, http.StatusOK, post)
	}
}

type postStatusRequest struct {
	Status string `json:"status"`
}

func handleSetPostStatus(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
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
		if err := postSvc.SetPostStatus(r.Context(), postID, user.ID, domain.PostStatus(req.Status)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleDeletePost(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		if err := postSvc.DeletePost(r.Context(), postID, user.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type reactionRequest struct {
	ReactionType string `json:"reaction_type"`
}

func handleReact(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		var req reactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := postSvc.React(r.Context(), postID, user.ID, req.ReactionType); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleUnreact(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		if err := postSvc.Unreact(r.Context(), postID, user.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleListReactions(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		reactions, err := postSvc.ListReactions(r.Context(), postID)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, rc := range reactions {
			resolvePath(r.Context(), store, rc.ProfileImage)
		}
		writeJSON(w, http.StatusOK, reactions)
	}
}

type commentCreateRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

func handleAddComment(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		var req commentCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		comment, err := postSvc.AddComment(r.Context(), user.ID, service.CommentCreateInput{
			PostID:   postID,
			Content:  req.Content,
			ParentID: req.ParentID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveComment(r.Context(), store, comment)
		writeJSON(w, http.StatusCreated, comment)
	}
}

func handleListComments(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id"})
			return
		}
		limit, offset := pageParams(r)
		comments, err := postSvc.ListComments(r.Context(), postID, limit, offset)
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

type commentUpdateRequest struct {
	Content string `json:"content"`
}

func handleUpdateComment(postSvc *service.PostService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid comment id"})
			return
		}
		var req commentUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		comment, err := postSvc.UpdateComment(r.Context(), commentID, user.ID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveComment(r.Context(), store, comment)
		writeJSON(w, http.StatusOK, comment)
	}
}

func handleDeleteComment(postSvc *service.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid comment id"})
			return
		}
		if err := postSvc.DeleteComment(r.Context(), commentID, user.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func postIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
}

// viewerIDParam returns the authenticated user's id, if any; public listing
// endpoints work without a token.
func viewerIDParam(r *http.Request) *int64 {
	if u := CurrentUser(r); u != nil {
		return &u.ID
	}
	return nil
}

func optionalFormValue(r *http.Request, field string) *string {
	if v := r.FormValue(field); v != "" {
		return &v
	}
	return nil
}

func optionalFormFloat(r *http.Request, field string) *float64 {
	if v := r.FormValue(field); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}
