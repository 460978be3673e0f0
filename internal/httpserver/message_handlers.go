package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"helplink/internal/domain"
	"helplink/internal/service"
	"helplink/internal/storage"
)

type messageCreateRequest struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
}

// handleSendMessage accepts either a JSON body or a multipart form. The
// multipart path carries attachments under "files" alongside "content" and
// "message_type" fields.
func handleSendMessage(chatSvc *service.ChatService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, err := chatIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}

		in := service.SendMessageInput{
			ChatID:   chatID,
			SenderID: user.ID,
		}

		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
				return
			}
			in.Content = r.FormValue("content")
			in.MessageType = domain.MessageType(r.FormValue("message_type"))

			paths, err := uploadAll(r.Context(), store, r, "files", "message_media")
			if err != nil {
				writeError(w, err)
				return
			}
			for i, p := range paths {
				mediaType := "photo"
				ct := r.MultipartForm.File["files"][i].Header.Get("Content-Type")
				if strings.HasPrefix(ct, "video/") {
					mediaType = "video"
				}
				in.Media = append(in.Media, &domain.MessageMedia{
					MediaType: mediaType,
					MediaURL:  p,
				})
			}
			if in.MessageType == "" && len(in.Media) > 0 {
				in.MessageType = domain.MessageType(in.Media[0].MediaType)
			}
		} else {
			var req messageCreateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
				return
			}
			in.Content = req.Content
			in.MessageType = domain.MessageType(req.MessageType)
		}

		if (in.MessageType == domain.MessagePhoto || in.MessageType == domain.MessageVideo) && len(in.Media) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one attachment is required"})
			return
		}

		msg, err := chatSvc.SendMessage(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveMessage(r.Context(), store, msg)
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(chatSvc *service.ChatService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		chatID, err := chatIDParam(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}
		limit, offset := pageParams(r)

		msgs, err := chatSvc.ListMessages(r.Context(), chatID, user.ID, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, m := range msgs {
			resolveMessage(r.Context(), store, m)
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

type messageStatusRequest struct {
	Status string `json:"status"`
}

func handleUpdateMessageStatus(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message id"})
			return
		}
		var req messageStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if err := chatSvc.UpdateMessageStatus(r.Context(), messageID, user.ID, domain.DeliveryStatus(req.Status)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
