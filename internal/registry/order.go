package registry

import "sort"

// SortRepositories sorts repositories by name, ascending. Repositories
// without a name go last and keep their relative order.
func SortRepositories(repositories []Repository) {
	sort.SliceStable(repositories, func(i, j int) bool {
		a, b := repositories[i].Name, repositories[j].Name
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// SortImages sorts images by push time, newest first. An image without a
// push time is ordered as if pushed at epoch 0. Times that cannot be
// compared are treated as equal.
func SortImages(images []Image) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].pushedAtSeconds() > images[j].pushedAtSeconds()
	})
}
