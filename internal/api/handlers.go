package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ttravel/hospitality/internal/gallery"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
	"github.com/ttravel/hospitality/internal/pkg/validate"
	"github.com/ttravel/hospitality/internal/service/contact"
	"github.com/ttravel/hospitality/internal/storage"
)

// Handlers holds the dependencies of every site and admin endpoint.
type Handlers struct {
	store   storage.Storage
	contact *contact.Service
	gallery gallery.Store
	now     func() time.Time
}

// NewHandlers wires the handlers. A nil gallery serves the default stock list.
func NewHandlers(store storage.Storage, contactSvc *contact.Service, g gallery.Store) *Handlers {
	if g == nil {
		g = gallery.NewStaticStore(nil)
	}
	return &Handlers{store: store, contact: contactSvc, gallery: g, now: time.Now}
}

// writeError maps domain and storage errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var cerr *contact.ValidationError
	var verr *validate.Error
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httputil.NotFound(w, "not found")
	case errors.Is(err, storage.ErrDuplicate):
		httputil.Error(w, http.StatusConflict, "already exists")
	case errors.As(err, &cerr):
		httputil.ValidationError(w, cerr.Error(), cerr.Fields)
	case errors.As(err, &verr):
		httputil.ValidationError(w, "invalid request", verr.Fields)
	case errors.Is(err, gallery.ErrUploadsDisabled):
		httputil.ServiceUnavailable(w, err.Error())
	case errors.Is(err, gallery.ErrTooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, gallery.ErrUnsupportedType):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

// queryBool reads a boolean query parameter; anything unparsable is false.
func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
