package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/LennartSch/hembygdsmuseum/internal/accession"
	"github.com/LennartSch/hembygdsmuseum/internal/imaging"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// ItemsHandler handles item, photo and donation endpoints.
type ItemsHandler struct {
	DB *sql.DB
	// Now returns the current time; it decides the year of suggested
	// accession numbers.
	Now func() time.Time
}

type createItemRequest struct {
	model.NewItem
	Donation *model.NewDonation `json:"donation,omitempty"`
}

type itemResponse struct {
	Item      *model.Item      `json:"item"`
	Photos    []model.Photo    `json:"photos"`
	Donations []model.Donation `json:"donations"`
}

// List handles GET /api/items?q=&category=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ItemFilter{Term: r.URL.Query().Get("q")}
	if c := r.URL.Query().Get("category"); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		filter.CategoryID = id
	}

	items, err := store.SearchItems(r.Context(), h.DB, filter)
	if err != nil {
		writeError(w, err, "item", "search items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.NewItem.Validate(); err != nil {
		writeError(w, err, "item", "validate item")
		return
	}
	if req.Donation != nil {
		if err := req.Donation.Validate(); err != nil {
			writeError(w, err, "donation", "validate donation")
			return
		}
	}

	item, err := store.RegisterItem(r.Context(), h.DB, req.NewItem, nil, req.Donation)
	if err != nil {
		writeError(w, err, "accession number", "register item")
		return
	}

	slog.Info("item registered", "id", item.ID, "accession_number", item.AccessionNumber)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "item", "get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	photos, err := store.ListItemPhotos(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "photo", "list photos")
		return
	}
	donations, err := store.ListItemDonations(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "donation", "list donations")
		return
	}

	resp := itemResponse{Item: item, Photos: photos, Donations: donations}
	if resp.Photos == nil {
		resp.Photos = []model.Photo{}
	}
	if resp.Donations == nil {
		resp.Donations = []model.Donation{}
	}
	jsonResponse(w, http.StatusOK, resp)
}

// NextAccession handles GET /api/accession/next?year=.
func (h *ItemsHandler) NextAccession(w http.ResponseWriter, r *http.Request) {
	year := h.now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 1 {
			jsonError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	next, err := accession.Next(r.Context(), h.DB, year)
	if err != nil {
		writeError(w, err, "accession number", "suggest accession number")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"accession_number": next})
}

func (h *ItemsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// ListPhotos handles GET /api/items/{id}/photos.
func (h *ItemsHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	photos, err := store.ListItemPhotos(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "photo", "list photos")
		return
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	jsonResponse(w, http.StatusOK, photos)
}

// UploadPhoto handles POST /api/items/{id}/photos (multipart field "photo").
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusBadRequest, "photo must be JPEG, PNG, WebP, BMP or TIFF")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "could not read photo")
		return
	}

	photo, err := store.AddPhoto(r.Context(), h.DB, model.NewPhoto{
		ItemID:       id,
		Data:         processed.Data,
		Mime:         processed.MIME,
		Width:        processed.Width,
		Height:       processed.Height,
		Description:  r.FormValue("description"),
		Photographer: r.FormValue("photographer"),
	})
	if err != nil {
		writeError(w, err, "photo", "save photo")
		return
	}

	slog.Info("photo added", "item_id", id, "photo_id", photo.ID, "size", photo.Size)
	jsonResponse(w, http.StatusCreated, photo)
}

// GetPhoto handles GET /api/photos/{id}. With ?thumb=1 a thumbnail is returned.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	data, mime, err := store.GetPhotoData(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err, "photo", "get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "photo not found")
		return
	}

	if r.URL.Query().Get("thumb") != "" {
		thumb, err := imaging.Thumbnail(data)
		if err != nil {
			slog.Error("failed to create thumbnail", "photo_id", id, "error", err)
		} else {
			data, mime = thumb.Data, thumb.MIME
		}
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// DeletePhoto handles DELETE /api/photos/{id}.
func (h *ItemsHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	if err := store.DeletePhoto(r.Context(), h.DB, id); err != nil {
		writeError(w, err, "photo", "delete photo")
		return
	}

	slog.Info("photo deleted", "photo_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo deleted"})
}

// AddDonation handles POST /api/items/{id}/donations.
func (h *ItemsHandler) AddDonation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req model.NewDonation
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ItemID = id

	if err := req.Validate(); err != nil {
		writeError(w, err, "donation", "validate donation")
		return
	}

	donation, err := store.CreateDonation(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, err, "donation", "record donation")
		return
	}

	slog.Info("donation recorded", "item_id", id, "donor_id", donation.DonorID)
	jsonResponse(w, http.StatusCreated, donation)
}
