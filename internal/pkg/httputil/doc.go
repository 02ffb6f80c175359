// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers write responses through these helpers rather than calling
// http.ResponseWriter directly, so every endpoint emits the same JSON
// envelope for errors.
package httputil
