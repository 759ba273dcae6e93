package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/LennartSch/hembygdsmuseum/internal/export"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// ExportItems handles GET /export.xlsx?q=&category=. It writes the current
// search result as a spreadsheet.
func (s *Server) ExportItems(w http.ResponseWriter, r *http.Request) {
	items, err := store.SearchItems(r.Context(), s.DB, itemFilter(r))
	if err != nil {
		s.serverError(w, r, "search items", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteItems(&buf, items); err != nil {
		s.serverError(w, r, "write spreadsheet", err)
		return
	}

	name := fmt.Sprintf("foremal_%s.xlsx", s.now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
