package unsafer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vulkan-testing/unsafer"
)

func TestSliceToBytes(t *testing.T) {
	input := []uint32{0x04030201, 0x08070605}

	asBytes := unsafer.SliceToBytes(input)
	assert.Len(t, asBytes, 8)

	// Assumes a little endian machine, as does passing any of this memory to
	// Vulkan in the first place.
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, asBytes)
}

func TestSliceBytesToUint32(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	words := unsafer.SliceBytesToUint32(input)
	assert.Equal(t, []uint32{0x04030201, 0x08070605}, words)

	// The result is a copy, changing the input must not change the words.
	input[0] = 9
	assert.Equal(t, uint32(0x04030201), words[0])
}

func TestStructToBytes(t *testing.T) {
	type vec2 struct {
		X float32
		Y float32
	}

	v := vec2{}
	asBytes := unsafer.StructToBytes(&v)
	assert.Len(t, asBytes, 8)
	assert.Equal(t, make([]byte, 8), asBytes)
}
