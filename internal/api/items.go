package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/repurpose/repurpose/internal/model"
	"github.com/repurpose/repurpose/internal/store"
)

// ItemsHandler handles item and category endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	CategoryID  int64  `json:"category_id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	principal := GetPrincipal(r.Context())
	item, err := store.CreateItem(r.Context(), h.DB, principal.ID, req.CategoryID, req.Title, req.Description, req.Location)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("item listed", "owner", principal.Name, "item", item.Title)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID = id
	}

	items, err := store.ListItems(r.Context(), h.DB, categoryID, r.URL.Query().Get("status"))
	if err != nil {
		domainError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		domainError(w, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	principal := GetPrincipal(r.Context())
	if err := store.DeleteItem(r.Context(), h.DB, id, *principal); err != nil {
		domainError(w, err)
		return
	}

	slog.Info("item deleted", "actor", principal.Name, "item_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// ListCategories handles GET /api/categories.
func (h *ItemsHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}
