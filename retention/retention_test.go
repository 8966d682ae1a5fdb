package retention_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/cache-provider/retention"
)

func TestAbsoluteExpiry(t *testing.T) {
	now := time.Now()
	pol := retention.ExpireAfter(now, time.Minute)

	assert.True(t, pol.Live(now))
	assert.True(t, pol.Live(now.Add(59*time.Second)))
	assert.False(t, pol.Live(now.Add(time.Minute)), "invalid AT the deadline")
	assert.False(t, pol.Live(now.Add(2*time.Minute)))
}

func TestAbsoluteExpiryZeroTTL(t *testing.T) {
	now := time.Now()
	pol := retention.ExpireAfter(now, 0)

	assert.False(t, pol.Live(now), "zero ttl is born dead")
}

func TestFileDependencyLatch(t *testing.T) {
	dep := retention.NewFileDependency("/etc/app/settings.conf")
	now := time.Now()

	assert.Equal(t, "/etc/app/settings.conf", dep.Path())
	assert.True(t, dep.Live(now))
	assert.True(t, dep.Live(now.Add(24*time.Hour)), "file dependencies do not age out")

	dep.Invalidate()
	assert.False(t, dep.Live(now))

	dep.Invalidate() // idempotent
	assert.False(t, dep.Live(now))
}
