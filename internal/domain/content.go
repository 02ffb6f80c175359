package domain

import "time"

// Content is one editable piece of site copy addressed by a dotted key such
// as "hero.title". Keys are unique; writes upsert.
type Content struct {
	ID        string    `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewContent is a key/value pair to upsert.
type NewContent struct {
	Key   string `json:"key" validate:"required,max=200"`
	Value string `json:"value" validate:"max=10000"`
}

// ContentMap flattens records into the key->value object the pages read.
func ContentMap(items []Content) map[string]string {
	m := make(map[string]string, len(items))
	for _, c := range items {
		m[c.Key] = c.Value
	}
	return m
}
