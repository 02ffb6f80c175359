package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
	"github.com/ttravel/hospitality/internal/pkg/validate"
)

// GetContent returns site copy as a flat key->value object.
//
//	GET /api/content
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.GetContent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, domain.ContentMap(items))
}

// ListContent returns the full content records for the admin editor.
//
//	GET /api/admin/content
func (h *Handlers) ListContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.GetContent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, items)
}

// contentUpdates accepts either [{"key":..,"value":..}] or {"key": "value"}.
type contentUpdates []domain.NewContent

func (c *contentUpdates) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(contentUpdates, len(keys))
		for i, k := range keys {
			out[i] = domain.NewContent{Key: k, Value: m[k]}
		}
		*c = out
		return nil
	}
	var list []domain.NewContent
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

// UpdateContent upserts every pair and returns the resulting content map.
// Pairs are validated up front so a bad entry writes nothing.
//
//	PUT /api/admin/content
//	PUT /api/content
func (h *Handlers) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var updates contentUpdates
	if !httputil.Decode(w, r, &updates) {
		return
	}
	for _, u := range updates {
		if err := validate.Struct(u); err != nil {
			writeError(w, err)
			return
		}
	}

	ctx := r.Context()
	for _, u := range updates {
		if _, err := h.store.SetContent(ctx, u); err != nil {
			writeError(w, err)
			return
		}
	}

	h.GetContent(w, r)
}
