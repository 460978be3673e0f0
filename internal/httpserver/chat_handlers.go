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

type chatCreateRequest struct {
	// A user id starts (or returns) a private chat; participant ids start a
	// group chat. Exactly one of the two must be set.
	UserID         *int64  `json:"user_id"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

func handleCreateChat(chatSvc *service.ChatService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req chatCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if (req.UserID == nil) == (len(req.ParticipantIDs) == 0) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provide either user_id or participant_ids"})
			return
		}

		var (
			chat *domain.Chat
			err  error
		)
		if req.UserID != nil {
			chat, err = chatSvc.StartPrivateChat(r.Context(), user.ID, *req.UserID)
		} else {
			chat, err = chatSvc.CreateGroupChat(r.Context(), user.ID, req.ParticipantIDs)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		resolveChat(r.Context(), store, chat)
		writeJSON(w, http.StatusCreated, chat)
	}
}

func handleListChats(chatSvc *service.ChatService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		limit, offset := pageParams(r)
		chats, err := chatSvc.ListChats(r.Context(), user.ID, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, c := range chats {
			resolveChat(r.Context(), store, c)
		}
		writeJSON(w, http.StatusOK, chats)
	}
}

func handleGetChat(chatSvc *service.ChatService, store storage.ObjectStorage) http.HandlerFunc {
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
		chat, err := chatSvc.GetChat(r.Context(), chatID, user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		resolveChat(r.Context(), store, chat)
		writeJSON(w, http.StatusOK, chat)
	}
}

type addParticipantRequest struct {
	UserID int64 `json:"user_id"`
}

func handleAddParticipant(chatSvc *service.ChatService) http.HandlerFunc {
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
		var req addParticipantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		added, err := chatSvc.AddParticipant(r.Context(), chatID, user.ID, req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"added": added})
	}
}

func handleMarkChatSeen(chatSvc *service.ChatService) http.HandlerFunc {
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
		if err := chatSvc.MarkChatSeen(r.Context(), chatID, user.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func chatIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
}
