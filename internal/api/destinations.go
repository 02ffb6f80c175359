package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
	"github.com/ttravel/hospitality/internal/pkg/validate"
)

// ListDestinations returns active destinations.
//
//	GET /api/destinations
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.GetDestinations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, list)
}

// ListDestinationsByType returns active destinations of one type.
//
//	GET /api/destinations/{type}
func (h *Handlers) ListDestinationsByType(w http.ResponseWriter, r *http.Request) {
	t := domain.DestinationType(chi.URLParam(r, "type"))
	if !t.Valid() {
		httputil.BadRequest(w, "type must be domestic or international")
		return
	}
	list, err := h.store.GetDestinationsByType(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, list)
}

// AdminListDestinations includes inactive destinations when
// ?includeInactive=true.
//
//	GET /api/admin/destinations
func (h *Handlers) AdminListDestinations(w http.ResponseWriter, r *http.Request) {
	get := h.store.GetDestinations
	if queryBool(r, "includeInactive") {
		get = h.store.GetAllDestinations
	}
	list, err := get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, list)
}

// GetDestination returns one destination, active or not.
//
//	GET /api/admin/destinations/{id}
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.GetDestination(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, d)
}

// POST /api/admin/destinations
func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var in domain.NewDestination
	if !httputil.Decode(w, r, &in) {
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, err)
		return
	}
	d, err := h.store.CreateDestination(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, d)
}

// PUT /api/admin/destinations/{id}
func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	var patch domain.DestinationPatch
	if !httputil.Decode(w, r, &patch) {
		return
	}
	if err := validate.Struct(patch); err != nil {
		writeError(w, err)
		return
	}
	d, err := h.store.UpdateDestination(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, d)
}

// DeleteDestination soft-deletes; the record stays readable by id.
//
//	DELETE /api/admin/destinations/{id}
func (h *Handlers) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDestination(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.NoContent(w)
}
