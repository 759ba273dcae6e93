package web

import (
	"net/http"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "compute statistics", err)
		return
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats      *model.Stats
		Conditions []string
	}{
		PageData:   s.page(w, r, "Översikt"),
		Stats:      stats,
		Conditions: model.Conditions,
	})
}
