package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/storage"
)

// recordingNotifier captures notifications and can be told to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	got  []domain.ContactSubmission
	fail error
}

func (n *recordingNotifier) NotifyContactSubmission(_ context.Context, s domain.ContactSubmission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, s)
	return n.fail
}

// clock is a settable time source for MemStorage.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, n Notifier) (*Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
	repo, err := storage.NewMemStorage(storage.WithClock(c.now))
	if err != nil {
		t.Fatalf("NewMemStorage: %v", err)
	}
	return NewService(repo, n), c
}

func validSubmission() domain.NewContactSubmission {
	return domain.NewContactSubmission{
		FirstName: " Asha ",
		LastName:  "Roy",
		Email:     "asha@example.com",
		Subject:   "Kerala backwaters",
		Message:   "Do you have houseboat packages in December?",
	}
}

func TestSubmit_StoresPendingAndNotifies(t *testing.T) {
	n := &recordingNotifier{}
	svc, _ := newTestService(t, n)

	sub, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	if sub.FirstName != "Asha" {
		t.Errorf("first name not trimmed: %q", sub.FirstName)
	}
	if len(n.got) != 1 || n.got[0].ID != sub.ID {
		t.Errorf("notifier got %+v, want submission %s", n.got, sub.ID)
	}
}

func TestSubmit_NotifierFailureIsNotReturned(t *testing.T) {
	svc, _ := newTestService(t, &recordingNotifier{fail: errors.New("ses throttled")})

	if _, err := svc.Submit(context.Background(), validSubmission()); err != nil {
		t.Fatalf("Submit returned notifier error: %v", err)
	}
	subs, _ := svc.Submissions(context.Background())
	if len(subs) != 1 {
		t.Errorf("expected stored submission, got %d", len(subs))
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	in := validSubmission()
	in.Email = "not-an-email"
	in.Message = "   "

	_, err := svc.Submit(context.Background(), in)
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("err = %v, want ErrInvalidSubmission", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Fields["email"] != "email" || verr.Fields["message"] != "required" {
		t.Errorf("fields = %v", verr.Fields)
	}

	subs, _ := svc.Submissions(context.Background())
	if len(subs) != 0 {
		t.Errorf("invalid submission was stored")
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	sub, _ := svc.Submit(ctx, validSubmission())

	got, err := svc.UpdateStatus(ctx, sub.ID, domain.StatusResponded)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != domain.StatusResponded {
		t.Errorf("status = %q", got.Status)
	}

	if _, err := svc.UpdateStatus(ctx, sub.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", domain.StatusResponded); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want storage.ErrNotFound", err)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, " reader@example.com ")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	again, err := svc.Subscribe(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("Subscribe again: %v", err)
	}
	if first.ID != again.ID {
		t.Errorf("duplicate subscription created: %s vs %s", first.ID, again.ID)
	}

	if _, err := svc.Subscribe(ctx, "nope"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("err = %v, want ErrInvalidEmail", err)
	}

	if err := svc.Unsubscribe(ctx, "reader@example.com"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	list, _ := svc.Subscribers(ctx)
	if len(list) != 0 {
		t.Errorf("active subscribers = %d, want 0", len(list))
	}
	if err := svc.Unsubscribe(ctx, "ghost@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want storage.ErrNotFound", err)
	}

	back, err := svc.Subscribe(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if back.ID != first.ID || !back.IsActive {
		t.Errorf("resubscribe = %+v, want reactivated %s", back, first.ID)
	}
}

func TestStats(t *testing.T) {
	svc, c := newTestService(t, nil)
	ctx := context.Background()

	// Two in April, three in May.
	c.t = time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)
	svc.Submit(ctx, validSubmission())
	c.t = time.Date(2026, 4, 30, 23, 59, 0, 0, time.UTC)
	svc.Submit(ctx, validSubmission())
	for _, day := range []int{1, 9, 10} {
		c.t = time.Date(2026, 5, day, 8, 0, 0, 0, time.UTC)
		svc.Submit(ctx, validSubmission())
	}
	svc.Subscribe(ctx, "a@example.com")
	svc.Subscribe(ctx, "b@example.com")

	got, err := svc.Stats(ctx, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{ContactForms: 5, Newsletter: 2, ThisMonth: 3, Growth: 50}
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		cur, prev, want int
	}{
		{0, 0, 0},
		{4, 0, 100},
		{2, 4, -50},
		{4, 4, 0},
		{1, 3, -67},
		{10, 3, 233},
	}
	for _, tt := range tests {
		if got := growth(tt.cur, tt.prev); got != tt.want {
			t.Errorf("growth(%d, %d) = %d, want %d", tt.cur, tt.prev, got, tt.want)
		}
	}
}
