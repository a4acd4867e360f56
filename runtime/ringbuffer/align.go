package ringbuffer

import "unsafe"

// alignedSlice allocates n elements whose first element sits on an alignment
// byte boundary. Element sizes that do not divide the alignment fall back to
// the allocator's natural alignment.
func alignedSlice[T any](n, alignment int) []T {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if n <= 0 {
		return make([]T, 0)
	}
	if elem == 0 || alignment <= elem || alignment%elem != 0 {
		return make([]T, n)
	}

	pad := alignment / elem
	buf := make([]T, n+pad)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&buf[0])) % uintptr(alignment)); rem != 0 {
		if rem%elem != 0 {
			return buf[:n:n]
		}
		off = (alignment - rem) / elem
	}
	return buf[off : off+n : off+n]
}
