package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttravel/hospitality/internal/domain"
)

// stepClock returns a strictly increasing time on each call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

// sequentialIDs yields id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) *MemStorage {
	t.Helper()
	opts = append([]Option{
		WithClock(stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))),
		WithIDGenerator(sequentialIDs()),
	}, opts...)
	s, err := NewMemStorage(opts...)
	require.NoError(t, err)
	return s
}

func ids(ds []domain.Destination) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func TestCreateDestination_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d, err := s.CreateDestination(ctx, domain.NewDestination{
		Name: "Nepal", Type: domain.DestinationInternational, ImageURL: "u", FormURL: "f",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", d.ID)
	assert.Equal(t, "bi-geo-alt-fill", d.Icon)
	assert.True(t, d.IsActive)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestDestination_SoftDeleteLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d, err := s.CreateDestination(ctx, domain.NewDestination{
		Name: "Nepal", Type: domain.DestinationInternational, ImageURL: "u", FormURL: "f",
	})
	require.NoError(t, err)

	intl, err := s.GetDestinationsByType(ctx, domain.DestinationInternational)
	require.NoError(t, err)
	assert.Contains(t, ids(intl), d.ID)

	require.NoError(t, s.DeleteDestination(ctx, d.ID))

	intl, err = s.GetDestinationsByType(ctx, domain.DestinationInternational)
	require.NoError(t, err)
	assert.NotContains(t, ids(intl), d.ID)

	all, err := s.GetDestinations(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(all), d.ID)

	got, err := s.GetDestination(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	everything, err := s.GetAllDestinations(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(everything), d.ID)
}

func TestDestination_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetDestination(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateDestination(ctx, "missing", domain.DestinationPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteDestination(ctx, "missing"), ErrNotFound)
}

func TestUpdateDestination_MergesPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d, err := s.CreateDestination(ctx, domain.NewDestination{Name: "Goa", Type: domain.DestinationDomestic, ImageURL: "img"})
	require.NoError(t, err)

	name := "North Goa"
	updated, err := s.UpdateDestination(ctx, d.ID, domain.DestinationPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "North Goa", updated.Name)
	assert.Equal(t, "img", updated.ImageURL)
	assert.Equal(t, d.CreatedAt, updated.CreatedAt)

	got, err := s.GetDestination(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)
}

func TestGetDestinations_KeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var want []string
	for _, name := range []string{"Sikkim", "Assam", "Kerala"} {
		d, err := s.CreateDestination(ctx, domain.NewDestination{Name: name, Type: domain.DestinationDomestic})
		require.NoError(t, err)
		want = append(want, d.ID)
	}

	got, err := s.GetDestinations(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ids(got))
}

func TestContent_UpsertKeepsSingleRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.SetContent(ctx, domain.NewContent{Key: "hero.title", Value: "Hello"})
	require.NoError(t, err)
	second, err := s.SetContent(ctx, domain.NewContent{Key: "hero.title", Value: "Namaste"})
	require.NoError(t, err)

	assert.Equal(t, "Namaste", second.Value)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, first.ID, second.ID)

	all, err := s.GetContent(ctx)
	require.NoError(t, err)
	count := 0
	for _, c := range all {
		if c.Key == "hero.title" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	got, err := s.GetContentByKey(ctx, "hero.title")
	require.NoError(t, err)
	assert.Equal(t, "Namaste", got.Value)
}

func TestUpdateContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateContent(ctx, "nope", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	orig, err := s.SetContent(ctx, domain.NewContent{Key: "contact.phone", Value: "1"})
	require.NoError(t, err)

	updated, err := s.UpdateContent(ctx, "contact.phone", "2")
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Value)
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))
}

func TestContactSubmissions_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var created []string
	for _, subj := range []string{"first", "second", "third"} {
		sub, err := s.CreateContactSubmission(ctx, domain.NewContactSubmission{
			FirstName: "A", LastName: "B", Email: "a@b.com", Subject: subj, Message: "m",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, sub.Status)
		created = append(created, sub.ID)
	}

	list, err := s.GetContactSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, created[2], list[0].ID)
	assert.Equal(t, created[1], list[1].ID)
	assert.Equal(t, created[0], list[2].ID)
}

func TestContactSubmissions_ZeroCreatedAtSortsLast(t *testing.T) {
	zero := true
	clock := stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newTestStore(t, WithClock(func() time.Time {
		if zero {
			zero = false
			return time.Time{}
		}
		return clock()
	}))
	ctx := context.Background()

	undated, err := s.CreateContactSubmission(ctx, domain.NewContactSubmission{Subject: "undated"})
	require.NoError(t, err)
	dated, err := s.CreateContactSubmission(ctx, domain.NewContactSubmission{Subject: "dated"})
	require.NoError(t, err)

	list, err := s.GetContactSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{dated.ID, undated.ID}, []string{list[0].ID, list[1].ID})
}

func TestUpdateContactSubmissionStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub, err := s.CreateContactSubmission(ctx, domain.NewContactSubmission{Subject: "hi"})
	require.NoError(t, err)

	updated, err := s.UpdateContactSubmissionStatus(ctx, sub.ID, domain.StatusResponded)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResponded, updated.Status)
	assert.Equal(t, sub.Subject, updated.Subject)

	_, err = s.UpdateContactSubmissionStatus(ctx, "missing", domain.StatusResponded)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewsletter_Dedup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "a@b.com"})
	require.NoError(t, err)
	b, err := s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	active, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestNewsletter_ReactivatesInsteadOfDuplicating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	orig, err := s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "a@b.com"})
	require.NoError(t, err)

	off, err := s.DeactivateNewsletterSubscription(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	active, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	again, err := s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, again.ID)
	assert.True(t, again.IsActive)
	assert.Equal(t, orig.CreatedAt, again.CreatedAt)

	active, err = s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestNewsletter_EmailIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "A@b.com"})
	require.NoError(t, err)
	_, err = s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "a@b.com"})
	require.NoError(t, err)

	active, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = s.DeactivateNewsletterSubscription(ctx, "c@d.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPackages_SoftDeleteAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	kerala, err := s.CreatePackage(ctx, domain.NewPackage{
		DestinationID: "dest-kerala", Name: "Backwaters", Highlights: []string{"Houseboat", "Munnar"}, IsFeatured: true,
	})
	require.NoError(t, err)
	goa, err := s.CreatePackage(ctx, domain.NewPackage{DestinationID: "dest-goa", Name: "Beaches"})
	require.NoError(t, err)

	featured, err := s.GetFeaturedPackages(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, kerala.ID, featured[0].ID)

	byDest, err := s.GetPackagesByDestination(ctx, "dest-goa")
	require.NoError(t, err)
	require.Len(t, byDest, 1)
	assert.Equal(t, goa.ID, byDest[0].ID)

	require.NoError(t, s.DeletePackage(ctx, kerala.ID))

	active, err := s.GetPackages(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, goa.ID, active[0].ID)

	featured, err = s.GetFeaturedPackages(ctx)
	require.NoError(t, err)
	assert.Empty(t, featured)

	got, err := s.GetPackage(ctx, kerala.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, []string{"Houseboat", "Munnar"}, got.Highlights)

	all, err := s.GetAllPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, s.DeletePackage(ctx, "missing"), ErrNotFound)
}

func TestPackages_DanglingDestinationAccepted(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreatePackage(context.Background(), domain.NewPackage{DestinationID: "does-not-exist", Name: "Mystery"})
	require.NoError(t, err)
	assert.Equal(t, "does-not-exist", p.DestinationID)
}

func TestPackages_ReturnedCopiesAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreatePackage(ctx, domain.NewPackage{Name: "Ladakh Bikes", Highlights: []string{"Khardung La"}})
	require.NoError(t, err)
	p.Highlights[0] = "mutated"

	got, err := s.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Khardung La", got.Highlights[0])

	price := "₹45,000"
	updated, err := s.UpdatePackage(ctx, p.ID, domain.PackagePatch{PricePerPerson: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.PricePerPerson)
	assert.Equal(t, []string{"Khardung La"}, updated.Highlights)

	_, err = s.UpdatePackage(ctx, "missing", domain.PackagePatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.NewUser{Username: "editor", PasswordHash: "hash"})
	require.NoError(t, err)

	byID, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor", byID.Username)

	byName, err := s.GetUserByUsername(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser_RejectsDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, domain.NewUser{Username: "editor", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, domain.NewUser{Username: "editor", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := s.GetUserByUsername(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, domain.PasswordHash("hash"), got.PasswordHash)
}

func TestMemStorage_ConcurrentWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: "same@x.com"})
			_, _ = s.SetContent(ctx, domain.NewContent{Key: "hero.title", Value: "v"})
		}()
	}
	wg.Wait()

	subs, err := s.GetNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	content, err := s.GetContent(ctx)
	require.NoError(t, err)
	assert.Len(t, content, 1)
}
