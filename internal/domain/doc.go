// Package domain defines the core business types for the TTravel Hospitality site.
//
// Types in this package are plain value objects shared by handlers, services
// and stores. They carry no database handles and no HTTP concerns.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/validate tags are allowed (they're metadata, not behavior)
//   - Pure helpers on the types (defaults, patch merging) belong here
package domain
