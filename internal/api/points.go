package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/repurpose/repurpose/internal/model"
	"github.com/repurpose/repurpose/internal/store"
)

// PointsHandler handles donor points and leaderboard endpoints.
type PointsHandler struct {
	DB *sql.DB
}

// defaultLeaderboardLimit bounds the leaderboard when no limit is given.
const defaultLeaderboardLimit = 50

type myPointsResponse struct {
	Points    int64               `json:"points"`
	Badge     model.Badge         `json:"badge"`
	NextBadge model.BadgeProgress `json:"next_badge"`
}

// MyPoints handles GET /api/points/my-points.
func (h *PointsHandler) MyPoints(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	points, err := store.GetPoints(r.Context(), h.DB, principal.ID)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, myPointsResponse{
		Points:    points,
		Badge:     model.BadgeOf(points),
		NextBadge: model.NextBadge(points),
	})
}

// Leaderboard handles GET /api/points/leaderboard.
func (h *PointsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := store.Leaderboard(r.Context(), h.DB, limit)
	if err != nil {
		domainError(w, err)
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
