package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/repurpose/repurpose/internal/model"
	"github.com/repurpose/repurpose/internal/store"
)

// MessagesHandler handles messaging and conversation endpoints.
type MessagesHandler struct {
	DB *sql.DB
}

type sendMessageRequest struct {
	ItemID     int64  `json:"item_id" validate:"required,gt=0"`
	ReceiverID int64  `json:"receiver_id" validate:"required,gt=0"`
	Body       string `json:"body" validate:"required"`
}

// Send handles POST /api/messages.
func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	principal := GetPrincipal(r.Context())
	message, err := store.SendMessage(r.Context(), h.DB, req.ItemID, principal.ID, req.ReceiverID, req.Body)
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, message)
}

// GetConversation handles GET /api/messages/conversation/{itemID}/{otherID}.
func (h *MessagesHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	otherID, err := strconv.ParseInt(r.PathValue("otherID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	principal := GetPrincipal(r.Context())
	messages, err := store.GetConversation(r.Context(), h.DB, itemID, principal.ID, otherID)
	if err != nil {
		domainError(w, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	jsonResponse(w, http.StatusOK, messages)
}

// ListConversations handles GET /api/messages/conversations.
func (h *MessagesHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	conversations, err := store.ListConversations(r.Context(), h.DB, principal.ID)
	if err != nil {
		domainError(w, err)
		return
	}
	if conversations == nil {
		conversations = []model.Conversation{}
	}
	jsonResponse(w, http.StatusOK, conversations)
}
