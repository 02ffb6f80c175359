package domain

import (
	"strings"
	"time"
)

// Package is a priced, curated trip sold against a destination. DestinationID
// is a loose reference; nothing checks that the destination exists.
type Package struct {
	ID             string    `json:"id" db:"id"`
	DestinationID  string    `json:"destinationId" db:"destination_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	ImageURL       string    `json:"imageUrl" db:"image_url"`
	PricePerPerson string    `json:"pricePerPerson" db:"price_per_person"`
	Duration       string    `json:"duration" db:"duration"`
	Highlights     []string  `json:"highlights" db:"highlights"`
	Location       string    `json:"location" db:"location"`
	IsFeatured     bool      `json:"isFeatured" db:"is_featured"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Clone returns a copy that shares no slice memory with p.
func (p Package) Clone() Package {
	p.Highlights = append([]string(nil), p.Highlights...)
	if p.Highlights == nil {
		p.Highlights = []string{}
	}
	return p
}

// NewPackage is the insert shape for a package.
type NewPackage struct {
	DestinationID  string   `json:"destinationId"`
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"imageUrl"`
	PricePerPerson string   `json:"pricePerPerson"`
	Duration       string   `json:"duration"`
	Highlights     []string `json:"highlights"`
	Location       string   `json:"location"`
	IsFeatured     bool     `json:"isFeatured"`
	IsActive       *bool    `json:"isActive"`
}

// Build materializes the insert shape into a stored record.
func (n NewPackage) Build(id string, now time.Time) Package {
	p := Package{
		ID:             id,
		DestinationID:  n.DestinationID,
		Name:           n.Name,
		Description:    n.Description,
		ImageURL:       n.ImageURL,
		PricePerPerson: n.PricePerPerson,
		Duration:       n.Duration,
		Highlights:     n.Highlights,
		Location:       n.Location,
		IsFeatured:     n.IsFeatured,
		IsActive:       true,
		CreatedAt:      now,
	}
	if n.IsActive != nil {
		p.IsActive = *n.IsActive
	}
	return p.Clone()
}

// PackagePatch is a partial update. A non-nil Highlights slice replaces the
// stored list wholesale.
type PackagePatch struct {
	DestinationID  *string  `json:"destinationId,omitempty"`
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description,omitempty"`
	ImageURL       *string  `json:"imageUrl,omitempty"`
	PricePerPerson *string  `json:"pricePerPerson,omitempty"`
	Duration       *string  `json:"duration,omitempty"`
	Highlights     []string `json:"highlights,omitempty"`
	Location       *string  `json:"location,omitempty"`
	IsFeatured     *bool    `json:"isFeatured,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

// Apply shallow-merges the patch onto p and returns the result.
func (pp PackagePatch) Apply(p Package) Package {
	p = p.Clone()
	if pp.DestinationID != nil {
		p.DestinationID = *pp.DestinationID
	}
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.PricePerPerson != nil {
		p.PricePerPerson = *pp.PricePerPerson
	}
	if pp.Duration != nil {
		p.Duration = *pp.Duration
	}
	if pp.Highlights != nil {
		p.Highlights = append([]string{}, pp.Highlights...)
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.IsFeatured != nil {
		p.IsFeatured = *pp.IsFeatured
	}
	if pp.IsActive != nil {
		p.IsActive = *pp.IsActive
	}
	return p
}

// CleanHighlights trims each entry and drops blanks. The admin form always
// posts at least one (possibly empty) highlight row.
func CleanHighlights(in []string) []string {
	out := make([]string, 0, len(in))
	for _, h := range in {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
