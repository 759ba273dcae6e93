package api

import (
	"database/sql"
	"net/http"
)

// Options configures the API router.
type Options struct {
	// DBPath is the database file that backups copy.
	DBPath string
	// BackupDir receives backup files.
	BackupDir string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	donorsHandler := &DonorsHandler{DB: db}
	statsHandler := &StatsHandler{DB: db}
	backupsHandler := &BackupsHandler{DB: db, DBPath: opts.DBPath, Dir: opts.BackupDir}

	mux.HandleFunc("GET /api/accession/next", itemsHandler.NextAccession)

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/photos", itemsHandler.ListPhotos)
	mux.HandleFunc("POST /api/items/{id}/photos", itemsHandler.UploadPhoto)
	mux.HandleFunc("POST /api/items/{id}/donations", itemsHandler.AddDonation)
	mux.HandleFunc("GET /api/photos/{id}", itemsHandler.GetPhoto)
	mux.HandleFunc("DELETE /api/photos/{id}", itemsHandler.DeletePhoto)

	// Vocabularies.
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)
	mux.HandleFunc("DELETE /api/categories/{id}", categoriesHandler.Delete)
	mux.HandleFunc("GET /api/locations", locationsHandler.List)
	mux.HandleFunc("POST /api/locations", locationsHandler.Create)
	mux.HandleFunc("DELETE /api/locations/{id}", locationsHandler.Delete)
	mux.HandleFunc("GET /api/donors", donorsHandler.List)
	mux.HandleFunc("POST /api/donors", donorsHandler.Create)
	mux.HandleFunc("GET /api/donors/{id}", donorsHandler.Get)
	mux.HandleFunc("DELETE /api/donors/{id}", donorsHandler.Delete)

	mux.HandleFunc("GET /api/stats", statsHandler.Get)

	mux.HandleFunc("GET /api/backups", backupsHandler.List)
	mux.HandleFunc("POST /api/backups", backupsHandler.Create)

	return mux
}
