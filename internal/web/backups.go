package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/LennartSch/hembygdsmuseum/internal/backup"
)

// BackupsPage handles GET /backups.
func (s *Server) BackupsPage(w http.ResponseWriter, r *http.Request) {
	backups, err := backup.List(s.BackupDir, s.DBPath)
	if err != nil {
		s.serverError(w, r, "list backups", err)
		return
	}

	s.Templates.Render(w, "backups.html", &struct {
		PageData
		Backups []backup.Backup
		Dir     string
	}{
		PageData: s.page(w, r, "Säkerhetskopior"),
		Backups:  backups,
		Dir:      s.BackupDir,
	})
}

// BackupCreateSubmit handles POST /backups.
func (s *Server) BackupCreateSubmit(w http.ResponseWriter, r *http.Request) {
	b, err := backup.Create(r.Context(), s.DB, s.DBPath, s.BackupDir, s.now())
	if errors.Is(err, os.ErrExist) {
		redirect(w, r, "/backups", flashError, "En säkerhetskopia togs nyss. Vänta en sekund och försök igen.")
		return
	}
	if err != nil {
		slog.Error("failed to create backup", "dir", s.BackupDir, "error", err)
		redirect(w, r, "/backups", flashError, "Säkerhetskopian kunde inte skapas. Kontrollera att mappen går att skriva till.")
		return
	}

	slog.Info("backup created", "path", b.Path, "size", b.Size, "checksum", b.Checksum)
	redirect(w, r, "/backups", flashSuccess, fmt.Sprintf("Säkerhetskopian %s har skapats.", b.Name))
}
