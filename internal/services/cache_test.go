package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache[string, int](ttl, time.Hour)
	c.now = clock.Now
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	defer c.Close()

	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	clock.Advance(61 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_GetExtendsExpiration(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	clock.Advance(45 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(45 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok, "access within ttl keeps the entry alive")
}

func TestCache_SweepRemovesExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	defer c.Close()

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	c.sweep()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	defer c.Close()

	c.Set("a", 1)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 0, c.Len())
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Close()
	c.Close()
}
