package utils

// Unique removes duplicate values, keeping first occurrences in order.
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	list := make([]T, 0, len(slice))
	for _, entry := range slice {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		list = append(list, entry)
	}
	return list
}

// HasDuplicates reports whether any value appears more than once.
func HasDuplicates[T comparable](slice []T) bool {
	return len(Unique(slice)) != len(slice)
}
