package api

import (
	"database/sql"
	"net/http"

	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// StatsHandler handles GET /api/stats.
type StatsHandler struct {
	DB *sql.DB
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "statistics", "compute statistics")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
