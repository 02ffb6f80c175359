package api

import (
	"errors"
	"net/http"

	"github.com/ttravel/hospitality/internal/gallery"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
)

// multipart overhead allowed on top of the image itself
const uploadSlack = 1 << 20

// GET /api/gallery
func (h *Handlers) ListGallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, images)
}

// UploadGallery takes a multipart form with a single "file" field.
//
//	POST /api/gallery
func (h *Handlers) UploadGallery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, gallery.MaxUploadBytes+uploadSlack)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, gallery.ErrTooLarge)
			return
		}
		httputil.BadRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	img, err := h.gallery.Upload(r.Context(), hdr.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, img)
}
