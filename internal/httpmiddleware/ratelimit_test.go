package httpmiddleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"attendflow/internal/httpmiddleware"
)

func TestAllowConsumesBurstThenRejects(t *testing.T) {
	l := httpmiddleware.NewSimpleTokenBucket(3, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	l := httpmiddleware.NewSimpleTokenBucket(1, 1)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestZeroCapacityFallsBackToRate(t *testing.T) {
	l := httpmiddleware.NewSimpleTokenBucket(0, 2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}
