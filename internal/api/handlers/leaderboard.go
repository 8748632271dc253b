package handlers

import (
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/service"
)

// LeaderboardHandler serves the net worth ranking.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Leaderboard handles GET requests for the richest accounts.
// Net worth is cash plus the cached portfolio value at book cost.
//
// Endpoint: GET /api/leaderboard?limit=10
// Response: 200 OK with array of model.LeaderboardEntry, rank 1 first
// Error: 400 Bad Request if limit is invalid
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondServiceError(w, err, "invalid limit")
		return
	}

	entries, err := h.leaderboardService.Top(r.Context(), limit)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveLeaderboard.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
