package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "category", "list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewCategory
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err, "category", "validate category")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, err, "category", "create category")
		return
	}

	slog.Info("category created", "id", category.ID, "name", category.Name)
	jsonResponse(w, http.StatusCreated, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		writeError(w, err, "category", "delete category")
		return
	}

	slog.Info("category deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// LocationsHandler handles storage location endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "location", "list locations")
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewLocation
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err, "location", "validate location")
		return
	}

	location, err := store.CreateLocation(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, err, "location", "create location")
		return
	}

	slog.Info("location created", "id", location.ID, "location", location.Label())
	jsonResponse(w, http.StatusCreated, location)
}

// Delete handles DELETE /api/locations/{id}. Items stored there become unplaced.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	detached, err := store.DeleteLocation(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "location", "delete location")
		return
	}

	slog.Info("location deleted", "id", id, "detached_items", detached)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":        "location deleted",
		"detached_items": detached,
	})
}

// DonorsHandler handles donor endpoints.
type DonorsHandler struct {
	DB *sql.DB
}

// List handles GET /api/donors.
func (h *DonorsHandler) List(w http.ResponseWriter, r *http.Request) {
	donors, err := store.ListDonors(r.Context(), h.DB)
	if err != nil {
		writeError(w, err, "donor", "list donors")
		return
	}
	if donors == nil {
		donors = []model.Donor{}
	}
	jsonResponse(w, http.StatusOK, donors)
}

// Get handles GET /api/donors/{id}.
func (h *DonorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donor id")
		return
	}

	donor, err := store.GetDonor(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "donor", "get donor")
		return
	}
	if donor == nil {
		jsonError(w, http.StatusNotFound, "donor not found")
		return
	}

	donations, err := store.ListDonorDonations(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "donation", "list donations")
		return
	}
	if donations == nil {
		donations = []model.Donation{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"donor":     donor,
		"donations": donations,
	})
}

// Create handles POST /api/donors.
func (h *DonorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewDonor
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err, "donor", "validate donor")
		return
	}

	donor, err := store.CreateDonor(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, err, "donor", "create donor")
		return
	}

	slog.Info("donor created", "id", donor.ID)
	jsonResponse(w, http.StatusCreated, donor)
}

// Delete handles DELETE /api/donors/{id}.
func (h *DonorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid donor id")
		return
	}

	if err := store.DeleteDonor(r.Context(), h.DB, id); err != nil {
		writeError(w, err, "donor", "delete donor")
		return
	}

	slog.Info("donor deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "donor deleted"})
}
