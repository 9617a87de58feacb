package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestNeedsRebuild(t *testing.T) {
	tests := []struct {
		name     string
		res      vk.Result
		resized  bool
		expected bool
	}{
		{
			name:     "out of date swap chain",
			res:      vk.ErrorOutOfDate,
			expected: true,
		},
		{
			name:     "suboptimal swap chain",
			res:      vk.Suboptimal,
			expected: true,
		},
		{
			name:     "pending resize notification",
			res:      vk.Success,
			resized:  true,
			expected: true,
		},
		{
			name:     "successful present",
			res:      vk.Success,
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, needsRebuild(test.res, test.resized))
		})
	}
}

func TestNextFrameWrapsAround(t *testing.T) {
	assert.Equal(t, uint32(1), nextFrame(0, 2))
	assert.Equal(t, uint32(0), nextFrame(1, 2))
	assert.Equal(t, uint32(0), nextFrame(2, 3))
}

func TestAcquireFailsFastWhenFatal(t *testing.T) {
	// A coordinator whose last recreation failed must refuse further frames
	// without touching the device.
	c := &Coordinator{state: StateFatal}

	_, ok, err := c.AcquireNextImage()
	assert.Error(t, err)
	assert.ErrorContains(t, err, "fatal")
	assert.False(t, ok)
	assert.Equal(t, StateFatal, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "valid", StateValid.String())
	assert.Equal(t, "recreating", StateRecreating.String())
	assert.Equal(t, "fatal", StateFatal.String())
	assert.Equal(t, "unknown state 42", State(42).String())
}
