package domain

// Coalesce returns the first non-zero value in vals, or the zero value when
// all are zero. Seed conversion uses it for optional enum fields.
func Coalesce[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
