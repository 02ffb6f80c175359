package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ttravel/hospitality/internal/domain"
)

// table is an insertion-ordered map. Overwriting an existing key keeps its
// original position.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(key string) (T, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *table[T]) put(key string, v T) {
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = v
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		v := t.rows[k]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Option configures a MemStorage.
type Option func(*MemStorage)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *MemStorage) { m.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(gen func() string) Option {
	return func(m *MemStorage) { m.newID = gen }
}

// WithSeed seeds the default admin, site copy and destination catalogue on
// construction.
func WithSeed(opts SeedOptions) Option {
	return func(m *MemStorage) { m.seed = &opts }
}

// MemStorage is a process-lifetime Storage backed by maps. All state is lost
// on restart. It is safe for concurrent use.
type MemStorage struct {
	mu sync.RWMutex

	users         *table[domain.User]
	destinations  *table[domain.Destination]
	content       *table[domain.Content] // keyed by content key, not id
	submissions   *table[domain.ContactSubmission]
	subscriptions *table[domain.NewsletterSubscription]
	packages      *table[domain.Package]

	now   func() time.Time
	newID func() string
	seed  *SeedOptions
}

var _ Storage = (*MemStorage)(nil)

// NewMemStorage builds an empty store, then seeds it if WithSeed was given.
func NewMemStorage(opts ...Option) (*MemStorage, error) {
	m := &MemStorage{
		users:         newTable[domain.User](),
		destinations:  newTable[domain.Destination](),
		content:       newTable[domain.Content](),
		submissions:   newTable[domain.ContactSubmission](),
		subscriptions: newTable[domain.NewsletterSubscription](),
		packages:      newTable[domain.Package](),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.seed != nil {
		if err := Seed(context.Background(), m, *m.seed); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// --- Users ---

func (m *MemStorage) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemStorage) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.users.filter(func(u domain.User) bool { return u.Username == username })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (m *MemStorage) CreateUser(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	taken := m.users.filter(func(u domain.User) bool { return u.Username == nu.Username })
	if len(taken) > 0 {
		return nil, fmt.Errorf("create user %s: %w", nu.Username, ErrDuplicate)
	}
	u := domain.User{ID: m.newID(), Username: nu.Username, PasswordHash: nu.PasswordHash}
	m.users.put(u.ID, u)
	return &u, nil
}

// --- Destinations ---

func (m *MemStorage) GetDestinations(_ context.Context) ([]domain.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.destinations.filter(func(d domain.Destination) bool { return d.IsActive }), nil
}

func (m *MemStorage) GetAllDestinations(_ context.Context) ([]domain.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.destinations.filter(nil), nil
}

func (m *MemStorage) GetDestinationsByType(_ context.Context, t domain.DestinationType) ([]domain.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.destinations.filter(func(d domain.Destination) bool {
		return d.Type == t && d.IsActive
	}), nil
}

func (m *MemStorage) GetDestination(_ context.Context, id string) (*domain.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.destinations.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *MemStorage) CreateDestination(_ context.Context, nd domain.NewDestination) (*domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := nd.Build(m.newID(), m.now())
	m.destinations.put(d.ID, d)
	return &d, nil
}

func (m *MemStorage) UpdateDestination(_ context.Context, id string, patch domain.DestinationPatch) (*domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.destinations.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	d = patch.Apply(d)
	m.destinations.put(id, d)
	return &d, nil
}

func (m *MemStorage) DeleteDestination(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.destinations.get(id)
	if !ok {
		return ErrNotFound
	}
	d.IsActive = false
	m.destinations.put(id, d)
	return nil
}

// --- Content ---

func (m *MemStorage) GetContent(_ context.Context) ([]domain.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.content.filter(nil), nil
}

func (m *MemStorage) GetContentByKey(_ context.Context, key string) (*domain.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.content.get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemStorage) SetContent(_ context.Context, nc domain.NewContent) (*domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.content.get(nc.Key)
	if !ok {
		c = domain.Content{ID: m.newID(), Key: nc.Key}
	}
	c.Value = nc.Value
	c.UpdatedAt = m.now()
	m.content.put(nc.Key, c)
	return &c, nil
}

func (m *MemStorage) UpdateContent(_ context.Context, key, value string) (*domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.content.get(key)
	if !ok {
		return nil, ErrNotFound
	}
	c.Value = value
	c.UpdatedAt = m.now()
	m.content.put(key, c)
	return &c, nil
}

// --- Contact submissions ---

func (m *MemStorage) GetContactSubmissions(_ context.Context) ([]domain.ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.submissions.filter(nil)
	sort.SliceStable(out, func(i, j int) bool {
		return createdAtOrEpoch(out[i].CreatedAt).After(createdAtOrEpoch(out[j].CreatedAt))
	})
	return out, nil
}

// createdAtOrEpoch treats a missing timestamp as the Unix epoch when sorting.
func createdAtOrEpoch(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}

func (m *MemStorage) CreateContactSubmission(_ context.Context, ns domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.ContactSubmission{
		ID:        m.newID(),
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		Subject:   ns.Subject,
		Message:   ns.Message,
		Status:    domain.StatusPending,
		CreatedAt: m.now(),
	}
	m.submissions.put(s.ID, s)
	return &s, nil
}

func (m *MemStorage) UpdateContactSubmissionStatus(_ context.Context, id string, status domain.SubmissionStatus) (*domain.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = status
	m.submissions.put(id, s)
	return &s, nil
}

// --- Newsletter ---

func (m *MemStorage) GetNewsletterSubscriptions(_ context.Context) ([]domain.NewsletterSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subscriptions.filter(func(s domain.NewsletterSubscription) bool { return s.IsActive }), nil
}

func (m *MemStorage) findSubscription(email string) (domain.NewsletterSubscription, bool) {
	found := m.subscriptions.filter(func(s domain.NewsletterSubscription) bool { return s.Email == email })
	if len(found) == 0 {
		return domain.NewsletterSubscription{}, false
	}
	return found[0], true
}

func (m *MemStorage) CreateNewsletterSubscription(_ context.Context, ns domain.NewNewsletterSubscription) (*domain.NewsletterSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.findSubscription(ns.Email); ok {
		if !existing.IsActive {
			existing.IsActive = true
			m.subscriptions.put(existing.ID, existing)
		}
		return &existing, nil
	}

	s := domain.NewsletterSubscription{
		ID:        m.newID(),
		Email:     ns.Email,
		IsActive:  true,
		CreatedAt: m.now(),
	}
	m.subscriptions.put(s.ID, s)
	return &s, nil
}

func (m *MemStorage) DeactivateNewsletterSubscription(_ context.Context, email string) (*domain.NewsletterSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.findSubscription(email)
	if !ok {
		return nil, ErrNotFound
	}
	s.IsActive = false
	m.subscriptions.put(s.ID, s)
	return &s, nil
}

// --- Packages ---

func (m *MemStorage) listPackages(keep func(domain.Package) bool) []domain.Package {
	out := m.packages.filter(keep)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

func (m *MemStorage) GetPackages(_ context.Context) ([]domain.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPackages(func(p domain.Package) bool { return p.IsActive }), nil
}

func (m *MemStorage) GetAllPackages(_ context.Context) ([]domain.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPackages(nil), nil
}

func (m *MemStorage) GetPackagesByDestination(_ context.Context, destinationID string) ([]domain.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPackages(func(p domain.Package) bool {
		return p.DestinationID == destinationID && p.IsActive
	}), nil
}

func (m *MemStorage) GetFeaturedPackages(_ context.Context) ([]domain.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPackages(func(p domain.Package) bool { return p.IsFeatured && p.IsActive }), nil
}

func (m *MemStorage) GetPackage(_ context.Context, id string) (*domain.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.packages.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	p = p.Clone()
	return &p, nil
}

func (m *MemStorage) CreatePackage(_ context.Context, np domain.NewPackage) (*domain.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := np.Build(m.newID(), m.now())
	m.packages.put(p.ID, p)
	out := p.Clone()
	return &out, nil
}

func (m *MemStorage) UpdatePackage(_ context.Context, id string, patch domain.PackagePatch) (*domain.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	p = patch.Apply(p)
	m.packages.put(id, p)
	out := p.Clone()
	return &out, nil
}

func (m *MemStorage) DeletePackage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages.get(id)
	if !ok {
		return ErrNotFound
	}
	p.IsActive = false
	m.packages.put(id, p)
	return nil
}
