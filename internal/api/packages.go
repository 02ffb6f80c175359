package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
	"github.com/ttravel/hospitality/internal/pkg/validate"
)

// ListPackages returns active packages, narrowed by ?featured=true or
// ?destinationId=.
//
//	GET /api/packages
func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		list []domain.Package
		err  error
	)
	switch destID := r.URL.Query().Get("destinationId"); {
	case queryBool(r, "featured"):
		list, err = h.store.GetFeaturedPackages(ctx)
		if err == nil && destID != "" {
			list = filterByDestination(list, destID)
		}
	case destID != "":
		list, err = h.store.GetPackagesByDestination(ctx, destID)
	default:
		list, err = h.store.GetPackages(ctx)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, list)
}

func filterByDestination(list []domain.Package, destID string) []domain.Package {
	out := list[:0]
	for _, p := range list {
		if p.DestinationID == destID {
			out = append(out, p)
		}
	}
	return out
}

// GetPublicPackage hides inactive packages.
//
//	GET /api/packages/{id}
func (h *Handlers) GetPublicPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !p.IsActive {
		httputil.NotFound(w, "not found")
		return
	}
	httputil.OK(w, p)
}

// GET /api/admin/packages
func (h *Handlers) AdminListPackages(w http.ResponseWriter, r *http.Request) {
	get := h.store.GetPackages
	if queryBool(r, "includeInactive") {
		get = h.store.GetAllPackages
	}
	list, err := get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, list)
}

// GET /api/admin/packages/{id}
func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}

// POST /api/admin/packages
func (h *Handlers) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var in domain.NewPackage
	if !httputil.Decode(w, r, &in) {
		return
	}
	in.Highlights = domain.CleanHighlights(in.Highlights)
	if err := validate.Struct(in); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.store.CreatePackage(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, p)
}

// PUT /api/admin/packages/{id}
func (h *Handlers) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	var patch domain.PackagePatch
	if !httputil.Decode(w, r, &patch) {
		return
	}
	if patch.Highlights != nil {
		patch.Highlights = domain.CleanHighlights(patch.Highlights)
	}
	if err := validate.Struct(patch); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.store.UpdatePackage(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}

// DELETE /api/admin/packages/{id}
func (h *Handlers) DeletePackage(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	httputil.NoContent(w)
}
