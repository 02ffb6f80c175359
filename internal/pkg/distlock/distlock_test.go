package distlock

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLock_Exclusive(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "seed", time.Minute)
	b := NewRedisLock(client, "seed", time.Minute)

	ok, err := a.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not acquire")

	// b does not own the lock, so releasing it is a no-op.
	require.NoError(t, b.Release(ctx))
	assert.True(t, mr.Exists("lock:seed"))

	require.NoError(t, a.Release(ctx))
	assert.False(t, mr.Exists("lock:seed"))
}

func TestRedisLock_ExpiresWithTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "seed", time.Second)
	ok, err := a.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = NewRedisLock(client, "seed", time.Second).TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDo_WaitsForHolder(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	PollInterval = 10 * time.Millisecond

	holder := NewRedisLock(client, "migrate", time.Minute)
	ok, err := holder.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	var ran atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, NewRedisLock(client, "migrate", time.Minute), func(context.Context) error {
			ran.Store(true)
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())

	require.NoError(t, holder.Release(ctx))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not run after the lock was released")
	}
	assert.True(t, ran.Load())
}

func TestDo_ContextCancelled(t *testing.T) {
	_, client := setupTestRedis(t)
	PollInterval = 10 * time.Millisecond

	holder := NewRedisLock(client, "k", time.Minute)
	_, err := holder.TryAcquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err = Do(ctx, NewRedisLock(client, "k", time.Minute), func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_NilLockAndErrorPassthrough(t *testing.T) {
	boom := errors.New("boom")
	err := Do(context.Background(), nil, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestPGAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPGAdvisoryLock(db, "hospitality:migrate")

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(l.lockID).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec("SELECT pg_advisory_unlock").
		WithArgs(l.lockID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := l.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, l.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_PicksBackend(t *testing.T) {
	_, client := setupTestRedis(t)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.IsType(t, &RedisLock{}, New(client, db, "k", time.Second))
	assert.IsType(t, &PGAdvisoryLock{}, New(nil, db, "k", time.Second))
	assert.Nil(t, New(nil, nil, "k", time.Second))
}
