package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/repurpose/repurpose/internal/model"
	"github.com/repurpose/repurpose/internal/store"
)

// RequestsHandler handles donation request endpoints.
type RequestsHandler struct {
	DB *sql.DB
}

type createRequestRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	principal := GetPrincipal(r.Context())
	request, err := store.CreateRequest(r.Context(), h.DB, req.ItemID, principal.ID)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("request created", "requester", principal.Name, "item", request.ItemTitle)
	jsonResponse(w, http.StatusCreated, request)
}

// List handles GET /api/requests. The unfiltered list is public; the
// pending-only view is restricted to admins.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.RequestStatus(r.URL.Query().Get("status"))

	if status == model.RequestPending {
		principal := GetPrincipal(r.Context())
		if principal == nil {
			jsonError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !principal.IsAdmin() {
			jsonError(w, http.StatusForbidden, "admin access required")
			return
		}
	}

	requests, err := store.ListRequests(r.Context(), h.DB, status)
	if err != nil {
		domainError(w, err)
		return
	}
	if requests == nil {
		requests = []model.Request{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// UpdateStatus handles PUT /api/requests/{id}/status.
func (h *RequestsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	principal := GetPrincipal(r.Context())
	request, err := store.TransitionRequest(r.Context(), h.DB, id, model.RequestStatus(req.Status), *principal)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("request status updated", "actor", principal.Name,
		"request_id", request.ID, "status", request.Status)
	jsonResponse(w, http.StatusOK, request)
}

// Delete handles DELETE /api/requests/{id}.
func (h *RequestsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	principal := GetPrincipal(r.Context())
	if err := store.DeleteRequest(r.Context(), h.DB, id, *principal); err != nil {
		domainError(w, err)
		return
	}

	slog.Info("request deleted", "actor", principal.Name, "request_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "request deleted"})
}
