package optional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vulkan-testing/optional"
)

func TestZeroValueHasNoValue(t *testing.T) {
	var opt optional.Optional[uint32]
	assert.False(t, opt.HasValue())
}

func TestSetGetRoundTrip(t *testing.T) {
	var opt optional.Optional[uint32]

	opt.Set(42)
	assert.True(t, opt.HasValue())
	assert.Equal(t, uint32(42), opt.Get())

	opt.Set(0)
	assert.True(t, opt.HasValue())
	assert.Equal(t, uint32(0), opt.Get())
}

func TestGetOnEmptyPanics(t *testing.T) {
	var opt optional.Optional[string]
	assert.Panics(t, func() { opt.Get() })
}
