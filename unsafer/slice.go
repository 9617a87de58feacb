package unsafer

import (
	"reflect"
	"unsafe"
)

// SliceToBytes interprets an arbitrary input slice as a byte slice.
//
// Note that the returned slice points to the same underlying data in memory. It
// does not make a copy.
func SliceToBytes[T any](input []T) []byte {
	header := *(*reflect.SliceHeader)(unsafe.Pointer(&input))
	header.Len = int(unsafe.Sizeof(input[0])) * len(input)
	header.Cap = header.Len
	bytesSlice := *(*[]byte)(unsafe.Pointer(&header))
	return bytesSlice
}

// SliceBytesToUint32 copies a byte slice into a newly allocated []uint32. It is
// used for passing SPIR-V byte code to Vulkan which expects it as 32bit words.
func SliceBytesToUint32(data []byte) []uint32 {
	buf := make([]uint32, len(data)/4)
	header := (*reflect.SliceHeader)(unsafe.Pointer(&buf))
	copy(unsafe.Slice((*byte)(unsafe.Pointer(header.Data)), len(data)), data)
	return buf
}

// StructToBytes interprets the memory of a struct as a byte slice. The returned
// slice points to the same underlying data. It does not make a copy.
func StructToBytes[T any](input *T) []byte {
	size := int(unsafe.Sizeof(*input))
	return unsafe.Slice((*byte)(unsafe.Pointer(input)), size)
}
