package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ttravel/hospitality/internal/domain"
)

// SeedOptions controls the default data written by Seed.
type SeedOptions struct {
	AdminUsername string
	// AdminPassword is hashed with bcrypt before it is stored.
	AdminPassword string
}

// DefaultContent is the site copy a fresh store starts with.
var DefaultContent = []domain.NewContent{
	{Key: "site.name", Value: "TTravel Hospitality"},
	{Key: "hero.title", Value: "Explore the World with TTRAVE"},
	{Key: "hero.subtitle", Value: "Book your next adventure with us!"},
	{Key: "company.name", Value: "TTravel Hospitality"},
	{Key: "contact.phone", Value: "+91 8100331032"},
	{Key: "contact.email", Value: "ttrave.travelagency@gmail.com"},
	{Key: "contact.address", Value: "B-12, Shop No. - 111/19, Saptaparni Market, Kalyani Central Park - ward no. 11, Nadia- 741235, West Bengal, India"},
	{Key: "social.facebook", Value: "#"},
	{Key: "social.instagram", Value: "#"},
	{Key: "social.linkedin", Value: "#"},
	{Key: "social.twitter", Value: "#"},
}

// DomesticDestinations lists the Indian states and union territories.
var DomesticDestinations = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa",
	"Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala",
	"Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland",
	"Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu", "Telangana",
	"Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal", "Andaman and Nicobar Islands",
	"Chandigarh", "Dadra and Nagar Haveli and Daman and Diu", "Delhi",
	"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

// InternationalDestinations lists the foreign countries on offer.
var InternationalDestinations = []string{
	"France", "United Kingdom", "Italy", "Switzerland", "Japan", "Thailand",
	"Australia", "New Zealand", "Singapore", "Malaysia", "Dubai", "Turkey",
}

const (
	domesticImageURL      = "https://images.unsplash.com/photo-1524492412937-b28074a5d7da?w=400&h=200&fit=crop"
	internationalImageURL = "https://images.unsplash.com/photo-1436491865332-7a61a109cc05?w=400&h=200&fit=crop"
)

// PlaceholderFormURL builds the booking form link for a seeded destination.
// "Tamil Nadu" becomes https://forms.gle/placeholder-tamil-nadu.
func PlaceholderFormURL(name string) string {
	return "https://forms.gle/placeholder-" + strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Seed writes the default admin user, site copy and destination catalogue.
// It only fills gaps: an existing admin, an already-set content key or a
// non-empty destination catalogue is left alone, so it is safe to run
// against a persistent store on every boot.
func Seed(ctx context.Context, s Storage, opts SeedOptions) error {
	if opts.AdminUsername != "" {
		if err := seedAdmin(ctx, s, opts); err != nil {
			return err
		}
	}

	for _, c := range DefaultContent {
		_, err := s.GetContentByKey(ctx, c.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("seed content %s: %w", c.Key, err)
		}
		if _, err := s.SetContent(ctx, c); err != nil {
			return fmt.Errorf("seed content %s: %w", c.Key, err)
		}
	}

	existing, err := s.GetAllDestinations(ctx)
	if err != nil {
		return fmt.Errorf("seed destinations: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range DomesticDestinations {
		if err := seedDestination(ctx, s, name, domain.DestinationDomestic, domesticImageURL); err != nil {
			return err
		}
	}
	for _, name := range InternationalDestinations {
		if err := seedDestination(ctx, s, name, domain.DestinationInternational, internationalImageURL); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, s Storage, opts SeedOptions) error {
	_, err := s.GetUserByUsername(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := domain.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}
	if _, err := s.CreateUser(ctx, domain.NewUser{Username: opts.AdminUsername, PasswordHash: hash}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func seedDestination(ctx context.Context, s Storage, name string, t domain.DestinationType, imageURL string) error {
	_, err := s.CreateDestination(ctx, domain.NewDestination{
		Name:     name,
		Type:     t,
		ImageURL: imageURL,
		FormURL:  PlaceholderFormURL(name),
		Icon:     domain.DefaultDestinationIcon,
	})
	if err != nil {
		return fmt.Errorf("seed destination %s: %w", name, err)
	}
	return nil
}
