package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleClosesOnce(t *testing.T) {
	var life lifecycle
	assert.False(t, life.isClosed())
	assert.True(t, life.close())
	assert.False(t, life.close())
	assert.True(t, life.isClosed())
}
