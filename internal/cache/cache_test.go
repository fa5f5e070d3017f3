package cache

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	q1 := url.Values{"page": {"2"}, "industry": {"Banking"}, "sort_by": {"name"}}
	q2, _ := url.ParseQuery("sort_by=name&industry=Banking&page=2")
	assert.Equal(t, Canonical(q1), Canonical(q2))
	assert.Equal(t, "industry=Banking&page=2&sort_by=name", Canonical(q1))
	assert.Equal(t, "", Canonical(nil))
}

func TestMemory_SetGetAndInvalidate(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(1 << 20)
	require.NoError(t, err)
	defer m.Close()

	key := Key(ctx, m, []string{"company"}, "/api/v1/companies", url.Values{"page": {"1"}})
	assert.Equal(t, "company@0|/api/v1/companies?page=1", key)

	m.Set(ctx, key, []byte(`{"data":[]}`), time.Minute)
	got, ok := m.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"data":[]}`, string(got))

	require.NoError(t, m.Invalidate(ctx, "company"))
	assert.Equal(t, int64(1), m.Generation(ctx, "company"))
	next := Key(ctx, m, []string{"company"}, "/api/v1/companies", url.Values{"page": {"1"}})
	assert.NotEqual(t, key, next)
	_, ok = m.Get(ctx, next)
	assert.False(t, ok)
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	s.Set(context.Background(), "k", []byte("v"), time.Minute)
	_, ok := s.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.NoError(t, s.Invalidate(context.Background(), "x"))
}

type fakeRedis struct {
	data   map[string]string
	getErr error
	incErr error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incErr != nil {
		return redis.NewIntResult(0, f.incErr)
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedis_RoundTripAndGenerations(t *testing.T) {
	ctx := context.Background()
	fr := newFakeRedis()
	r := &Redis{client: fr}
	assert.NoError(t, r.Ping(ctx))

	_, ok := r.Get(ctx, "missing")
	assert.False(t, ok)

	r.Set(ctx, "k", []byte("payload"), time.Minute)
	assert.Equal(t, "payload", fr.data[keyPrefix+"k"])
	got, ok := r.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "payload", string(got))

	assert.Equal(t, int64(0), r.Generation(ctx, "stock"))
	require.NoError(t, r.Invalidate(ctx, "stock"))
	assert.Equal(t, int64(1), r.Generation(ctx, "stock"))
}

func TestRedis_FailuresDegradeToMiss(t *testing.T) {
	ctx := context.Background()
	fr := newFakeRedis()
	fr.getErr = errors.New("connection refused")
	fr.incErr = errors.New("connection refused")
	r := &Redis{client: fr}

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, UnknownGeneration, r.Generation(ctx, "company"))
	assert.Empty(t, Key(ctx, r, []string{"company"}, "/api/v1/companies", nil))
	assert.Error(t, r.Invalidate(ctx, "company"))
}
