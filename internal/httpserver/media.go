package httpserver

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"helplink/internal/domain"
	"helplink/internal/storage"
)

// presignTTL is how long minted media URLs stay valid.
const presignTTL = time.Hour

// Handlers store opaque object paths and resolve them to presigned URLs only
// when building a response. A failed resolution leaves the raw path in place
// rather than failing the whole request.
func resolvePath(ctx context.Context, store storage.ObjectStorage, path *string) {
	if path == nil || *path == "" {
		return
	}
	url, err := store.ResolveURL(ctx, *path, presignTTL)
	if err != nil {
		log.Printf("resolve media url %q: %v", *path, err)
		return
	}
	*path = url
}

func resolvePaths(ctx context.Context, store storage.ObjectStorage, paths []string) {
	for i := range paths {
		p := paths[i]
		resolvePath(ctx, store, &p)
		paths[i] = p
	}
}

func resolveUser(ctx context.Context, store storage.ObjectStorage, u *domain.User) {
	if u == nil {
		return
	}
	resolvePath(ctx, store, u.ProfileImage)
	resolvePath(ctx, store, u.VerificationSelfie)
	resolvePath(ctx, store, u.ValidID)
}

func resolveChat(ctx context.Context, store storage.ObjectStorage, c *domain.Chat) {
	if c == nil {
		return
	}
	for _, p := range c.Participants {
		resolvePath(ctx, store, p.ProfileImage)
	}
}

func resolveMessage(ctx context.Context, store storage.ObjectStorage, m *domain.Message) {
	if m == nil {
		return
	}
	resolvePath(ctx, store, m.SenderProfileImage)
	for _, md := range m.Media {
		url := md.MediaURL
		resolvePath(ctx, store, &url)
		md.MediaURL = url
		resolvePath(ctx, store, md.ThumbnailURL)
	}
}

func resolvePost(ctx context.Context, store storage.ObjectStorage, p *domain.Post) {
	if p == nil {
		return
	}
	resolvePath(ctx, store, p.AuthorProfileImage)
	resolvePaths(ctx, store, p.Photos)
	resolvePaths(ctx, store, p.Videos)
}

func resolveProofs(ctx context.Context, store storage.ObjectStorage, proofs []*domain.Proof) {
	for _, pr := range proofs {
		url := pr.ImageURL
		resolvePath(ctx, store, &url)
		pr.ImageURL = url
	}
}

func resolveDonation(ctx context.Context, store storage.ObjectStorage, d *domain.Donation) {
	if d == nil {
		return
	}
	resolvePath(ctx, store, d.ProfileImage)
	resolveProofs(ctx, store, d.Proofs)
}

func resolveSupporter(ctx context.Context, store storage.ObjectStorage, s *domain.Supporter) {
	if s == nil {
		return
	}
	resolvePath(ctx, store, s.ProfileImage)
	resolveProofs(ctx, store, s.Proofs)
}

func resolveComment(ctx context.Context, store storage.ObjectStorage, c *domain.Comment) {
	if c == nil {
		return
	}
	resolvePath(ctx, store, c.ProfileImage)
	for _, reply := range c.Replies {
		resolveComment(ctx, store, reply)
	}
}

// uploadFile stores one multipart file under the given folder and returns
// its object path.
func uploadFile(ctx context.Context, store storage.ObjectStorage, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Upload(ctx, f, folder, fh.Filename, contentType)
}

// uploadAll stores every file under the form field name and returns their
// object paths.
func uploadAll(ctx context.Context, store storage.ObjectStorage, r *http.Request, field, folder string) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var paths []string
	for _, fh := range r.MultipartForm.File[field] {
		p, err := uploadFile(ctx, store, fh, folder)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// handleResolveFileURL mints a presigned URL for a stored object path.
func handleResolveFileURL(store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := chi.URLParam(r, "*")
		if path == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file path is required"})
			return
		}
		url, err := store.ResolveURL(r.Context(), path, presignTTL)
		if err != nil {
			writeError(w, fmt.Errorf("resolve file url: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

// isMultipart reports whether the request carries a multipart form body.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
