package queues_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vulkan-testing/queues"
)

func TestIsComplete(t *testing.T) {
	indices := queues.FamilyIndices{}
	assert.False(t, indices.IsComplete())

	indices.Graphics.Set(0)
	assert.False(t, indices.IsComplete())

	indices.Present.Set(1)
	assert.True(t, indices.IsComplete())
}

func TestUniqueMergesSharedFamily(t *testing.T) {
	indices := queues.FamilyIndices{}
	indices.Graphics.Set(0)
	indices.Present.Set(0)

	assert.Equal(t, []uint32{0}, indices.Unique())
}

func TestUniqueKeepsDistinctFamilies(t *testing.T) {
	indices := queues.FamilyIndices{}
	indices.Graphics.Set(0)
	indices.Present.Set(2)

	assert.ElementsMatch(t, []uint32{0, 2}, indices.Unique())
}
