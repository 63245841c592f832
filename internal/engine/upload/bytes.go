package upload

import (
	"unsafe"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// Vec3Bytes views positions as raw bytes without copying.
func Vec3Bytes(v []math.Vec3) []byte {
	if v == nil {
		return nil
	}
	if len(v) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*int(unsafe.Sizeof(v[0])))
}

// Uint32Bytes views indices as raw bytes without copying.
func Uint32Bytes(v []uint32) []byte {
	if v == nil {
		return nil
	}
	if len(v) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
