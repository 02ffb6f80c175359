// Package contact handles the visitor-facing forms: contact enquiries and
// newsletter sign-ups, plus the admin dashboard counters derived from them.
//
// The service depends on the Repository interface in repository.go and a
// Notifier for new enquiries. It never imports net/http.
package contact
