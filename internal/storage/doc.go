// Package storage defines the data-access contract for the site and its
// in-memory implementation.
//
// Storage is a capability interface: MemStorage satisfies it for
// process-lifetime data, and repository/postgres satisfies it for durable
// data. Callers receive a Storage through their constructors; there is no
// package-level instance.
//
// The only failure a store reports for a well-formed call is ErrNotFound,
// returned when an id or key does not exist. Deletes are logical: records
// are marked inactive and stay readable by id.
package storage
