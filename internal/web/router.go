package web

import (
	"database/sql"
	"net/http"
	"time"

	webembed "github.com/LennartSch/hembygdsmuseum/web"
)

// Options configures the page router.
type Options struct {
	DBPath    string
	BackupDir string
	// Registrar pre-fills the "registered by" field of new items.
	Registrar string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		DBPath:    opts.DBPath,
		BackupDir: opts.BackupDir,
		Registrar: opts.Registrar,
		Now:       opts.Now,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Dashboard)

	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)

	mux.HandleFunc("GET /items", s.ItemsPage)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("POST /items/{id}/photos", s.ItemPhotoSubmit)
	mux.HandleFunc("POST /items/{id}/donations", s.ItemDonationSubmit)
	mux.HandleFunc("GET /photos/{id}", s.PhotoGet)
	mux.HandleFunc("POST /photos/{id}/delete", s.PhotoDeleteSubmit)

	mux.HandleFunc("GET /categories", s.CategoriesPage)
	mux.HandleFunc("POST /categories", s.CategoryCreateSubmit)
	mux.HandleFunc("POST /categories/{id}/delete", s.CategoryDeleteSubmit)

	mux.HandleFunc("GET /locations", s.LocationsPage)
	mux.HandleFunc("POST /locations", s.LocationCreateSubmit)
	mux.HandleFunc("GET /locations/{id}/delete", s.LocationDeletePage)
	mux.HandleFunc("POST /locations/{id}/delete", s.LocationDeleteSubmit)

	mux.HandleFunc("GET /donors", s.DonorsPage)
	mux.HandleFunc("POST /donors", s.DonorCreateSubmit)
	mux.HandleFunc("GET /donors/{id}", s.DonorDetailPage)
	mux.HandleFunc("POST /donors/{id}/delete", s.DonorDeleteSubmit)

	mux.HandleFunc("GET /backups", s.BackupsPage)
	mux.HandleFunc("POST /backups", s.BackupCreateSubmit)

	mux.HandleFunc("GET /print/items", s.PrintItems)
	mux.HandleFunc("GET /print/items/{id}", s.PrintItem)
	mux.HandleFunc("GET /print/stats", s.PrintStats)
	mux.HandleFunc("GET /print/categories", s.PrintCategories)
	mux.HandleFunc("GET /print/locations", s.PrintLocations)
	mux.HandleFunc("GET /print/donors", s.PrintDonors)

	mux.HandleFunc("GET /export.xlsx", s.ExportItems)

	return NoCacheMiddleware(mux), nil
}
