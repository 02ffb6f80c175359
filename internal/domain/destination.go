package domain

import "time"

// DestinationType separates Indian states/UTs from foreign countries.
type DestinationType string

const (
	DestinationDomestic      DestinationType = "domestic"
	DestinationInternational DestinationType = "international"
)

// Valid reports whether t is one of the known destination types.
func (t DestinationType) Valid() bool {
	return t == DestinationDomestic || t == DestinationInternational
}

// DefaultDestinationIcon is the Bootstrap icon used when none is supplied.
const DefaultDestinationIcon = "bi-geo-alt-fill"

// Destination is a bookable place shown on the site. Deleting a destination
// only flips IsActive; the record stays retrievable by id.
type Destination struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Type      DestinationType `json:"type" db:"type"`
	ImageURL  string          `json:"imageUrl" db:"image_url"`
	FormURL   string          `json:"formUrl" db:"form_url"`
	Icon      string          `json:"icon" db:"icon"`
	IsActive  bool            `json:"isActive" db:"is_active"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// NewDestination is the insert shape. Icon and IsActive are optional and
// default to DefaultDestinationIcon and true.
type NewDestination struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Type     DestinationType `json:"type" validate:"required,oneof=domestic international"`
	ImageURL string          `json:"imageUrl"`
	FormURL  string          `json:"formUrl"`
	Icon     string          `json:"icon"`
	IsActive *bool           `json:"isActive"`
}

// Build materializes the insert shape into a stored record.
func (n NewDestination) Build(id string, now time.Time) Destination {
	d := Destination{
		ID:        id,
		Name:      n.Name,
		Type:      n.Type,
		ImageURL:  n.ImageURL,
		FormURL:   n.FormURL,
		Icon:      n.Icon,
		IsActive:  true,
		CreatedAt: now,
	}
	if d.Icon == "" {
		d.Icon = DefaultDestinationIcon
	}
	if n.IsActive != nil {
		d.IsActive = *n.IsActive
	}
	return d
}

// DestinationPatch is a partial update. Nil fields are left untouched.
type DestinationPatch struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type     *DestinationType `json:"type,omitempty" validate:"omitempty,oneof=domestic international"`
	ImageURL *string          `json:"imageUrl,omitempty"`
	FormURL  *string          `json:"formUrl,omitempty"`
	Icon     *string          `json:"icon,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// Apply shallow-merges the patch onto d and returns the result.
func (p DestinationPatch) Apply(d Destination) Destination {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.ImageURL != nil {
		d.ImageURL = *p.ImageURL
	}
	if p.FormURL != nil {
		d.FormURL = *p.FormURL
	}
	if p.Icon != nil {
		d.Icon = *p.Icon
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	return d
}
