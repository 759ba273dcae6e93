package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LennartSch/hembygdsmuseum/internal/imaging"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// itemFilter reads q and category from the query string. An unparsable
// category is ignored.
func itemFilter(r *http.Request) store.ItemFilter {
	f := store.ItemFilter{Term: r.URL.Query().Get("q")}
	if id, err := strconv.ParseInt(r.URL.Query().Get("category"), 10, 64); err == nil {
		f.CategoryID = id
	}
	return f
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// ItemsPage handles GET /items?q=&category=.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	filter := itemFilter(r)

	items, err := store.SearchItems(r.Context(), s.DB, filter)
	if err != nil {
		s.serverError(w, r, "search items", err)
		return
	}
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list categories", err)
		return
	}

	pd := s.page(w, r, "Sök föremål")
	pd.Query = filter.Term

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items      []model.Item
		Categories []model.Category
		CategoryID string
	}{
		PageData:   pd,
		Items:      items,
		Categories: categories,
		CategoryID: r.URL.Query().Get("category"),
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "get item", err)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	photos, err := store.ListItemPhotos(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "list photos", err)
		return
	}
	donations, err := store.ListItemDonations(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "list donations", err)
		return
	}
	donors, err := store.ListDonors(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list donors", err)
		return
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item      *model.Item
		Photos    []model.Photo
		Donations []model.Donation
		Donors    []model.Donor
	}{
		PageData:  s.page(w, r, item.AccessionNumber+" "+item.Name),
		Item:      item,
		Photos:    photos,
		Donations: donations,
		Donors:    donors,
	})
}

// readPhoto processes the optional "photo" upload of a parsed multipart
// form. It returns nil when no file was chosen.
func readPhoto(r *http.Request) (*imaging.Result, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if header.Size == 0 {
		return nil, nil
	}
	return imaging.Process(file)
}

func photoMessage(err error) string {
	if errors.Is(err, imaging.ErrUnsupported) {
		return "Bilden måste vara JPEG, PNG, WebP, BMP eller TIFF."
	}
	return "Bilden kunde inte läsas."
}

// ItemPhotoSubmit handles POST /items/{id}/photos.
func (s *Server) ItemPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	target := fmt.Sprintf("/items/%d", id)

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		redirect(w, r, target, flashError, "Filen är för stor eller kunde inte tas emot.")
		return
	}

	processed, err := readPhoto(r)
	if err != nil {
		redirect(w, r, target, flashError, photoMessage(err))
		return
	}
	if processed == nil {
		redirect(w, r, target, flashError, "Välj en bild att ladda upp.")
		return
	}

	photo, err := store.AddPhoto(r.Context(), s.DB, model.NewPhoto{
		ItemID:       id,
		Data:         processed.Data,
		Mime:         processed.MIME,
		Width:        processed.Width,
		Height:       processed.Height,
		Description:  r.FormValue("description"),
		Photographer: r.FormValue("photographer"),
	})
	if errors.Is(err, store.ErrInvalidReference) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, "save photo", err)
		return
	}

	slog.Info("photo added", "item_id", id, "photo_id", photo.ID, "size", photo.Size)
	redirect(w, r, target, flashSuccess, "Bilden har sparats.")
}

// PhotoGet handles GET /photos/{id}. With ?thumb=1 a thumbnail is served.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, mime, err := store.GetPhotoData(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get photo", "photo_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
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

// PhotoDeleteSubmit handles POST /photos/{id}/delete.
func (s *Server) PhotoDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	photo, err := store.GetPhoto(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "get photo", err)
		return
	}
	if photo == nil {
		http.NotFound(w, r)
		return
	}

	if err := store.DeletePhoto(r.Context(), s.DB, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, "delete photo", err)
		return
	}

	slog.Info("photo deleted", "item_id", photo.ItemID, "photo_id", id)
	redirect(w, r, fmt.Sprintf("/items/%d", photo.ItemID), flashSuccess, "Bilden har tagits bort.")
}

// ItemDonationSubmit handles POST /items/{id}/donations.
func (s *Server) ItemDonationSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	target := fmt.Sprintf("/items/%d", id)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	donorID, _ := strconv.ParseInt(r.FormValue("donor_id"), 10, 64)
	n := model.NewDonation{
		ItemID:          id,
		DonorID:         donorID,
		DonatedOn:       r.FormValue("donated_on"),
		AcquisitionType: r.FormValue("acquisition_type"),
		Notes:           r.FormValue("notes"),
	}
	if err := n.Validate(); err != nil {
		redirect(w, r, target, flashError, "Välj en givare och ett giltigt förvärvssätt.")
		return
	}

	donation, err := store.CreateDonation(r.Context(), s.DB, n)
	if errors.Is(err, store.ErrInvalidReference) {
		redirect(w, r, target, flashError, "Givaren eller föremålet finns inte längre.")
		return
	}
	if err != nil {
		s.serverError(w, r, "record donation", err)
		return
	}

	slog.Info("donation recorded", "item_id", id, "donor_id", donation.DonorID)
	redirect(w, r, target, flashSuccess, "Proveniensen har sparats.")
}
