package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libsys/acquisitions/internal/domain/catalog"
)

func TestInMemoryReferenceCache_SetGet(t *testing.T) {
	c := NewInMemoryReferenceCache(time.Minute)
	ctx := context.Background()
	id := uuid.New()

	_, ok := c.Get(ctx, catalog.RefLoanType, "Can circulate")
	assert.False(t, ok)

	c.Set(ctx, catalog.RefLoanType, "Can circulate", id)

	got, ok := c.Get(ctx, catalog.RefLoanType, "Can circulate")
	require.True(t, ok)
	assert.Equal(t, id, got)

	// Same code under a different kind is a distinct entry
	_, ok = c.Get(ctx, catalog.RefInstanceType, "Can circulate")
	assert.False(t, ok)
}

func TestInMemoryReferenceCache_Expiry(t *testing.T) {
	c := NewInMemoryReferenceCache(time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, catalog.RefInstanceType, "zzz", uuid.New())
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, catalog.RefInstanceType, "zzz")
	assert.False(t, ok)
}

func TestInMemoryReferenceCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewInMemoryReferenceCache(0)
	ctx := context.Background()
	id := uuid.New()

	c.Set(ctx, catalog.RefInstanceStatus, "temp", id)
	time.Sleep(2 * time.Millisecond)

	got, ok := c.Get(ctx, catalog.RefInstanceStatus, "temp")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestReferenceCacheFactory_FallsBackToInMemory(t *testing.T) {
	factory := NewReferenceCacheFactory(
		RedisConfig{Addr: "localhost:1"},
		time.Minute,
	)

	c, err := factory.CreateCache()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryReferenceCache{}, c)
}

func TestReferenceCacheFactory_NoFallbackSurfacesError(t *testing.T) {
	factory := NewReferenceCacheFactory(
		RedisConfig{Addr: "localhost:1"},
		time.Minute,
		WithInMemoryFallback(false),
	)

	_, err := factory.CreateCache()
	assert.Error(t, err)
}
