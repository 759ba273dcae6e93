package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/LennartSch/hembygdsmuseum/internal/backup"
)

// BackupsHandler handles backup endpoints.
type BackupsHandler struct {
	DB     *sql.DB
	DBPath string
	Dir    string
}

// List handles GET /api/backups.
func (h *BackupsHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := backup.List(h.Dir, h.DBPath)
	if err != nil {
		writeError(w, err, "backup", "list backups")
		return
	}
	jsonResponse(w, http.StatusOK, backups)
}

// Create handles POST /api/backups.
func (h *BackupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := backup.Create(r.Context(), h.DB, h.DBPath, h.Dir, time.Now())
	if err != nil {
		writeError(w, err, "backup", "create backup")
		return
	}

	slog.Info("backup created", "path", b.Path, "size", b.Size, "checksum", b.Checksum)
	jsonResponse(w, http.StatusCreated, b)
}
