package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/httputil"
)

// POST /api/contact
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in domain.NewContactSubmission
	if !httputil.Decode(w, r, &in) {
		return
	}
	sub, err := h.contact.Submit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, sub)
}

// GET /api/admin/contact-submissions
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.contact.Submissions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, subs)
}

// PUT /api/admin/contact-submissions/{id}/status
func (h *Handlers) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.SubmissionStatus `json:"status"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	sub, err := h.contact.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, sub)
}

type emailBody struct {
	Email string `json:"email"`
}

// Subscribe is idempotent: a known address comes back as-is (reactivated).
//
//	POST /api/newsletter
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if !httputil.Decode(w, r, &body) {
		return
	}
	sub, err := h.contact.Subscribe(r.Context(), body.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, sub)
}

// DELETE /api/newsletter
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if !httputil.Decode(w, r, &body) {
		return
	}
	if err := h.contact.Unsubscribe(r.Context(), body.Email); err != nil {
		writeError(w, err)
		return
	}
	httputil.NoContent(w)
}

// GET /api/admin/newsletter
func (h *Handlers) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.contact.Subscribers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, subs)
}

// GET /api/admin/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.contact.Stats(r.Context(), h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, st)
}
