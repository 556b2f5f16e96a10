package order

// MinElements returns the items of the collection that are not strictly
// dominated by any other item under ord.
//
// Incomparable items and equivalent-but-distinct items are all kept. The
// result is duplicate-free; its order follows first occurrence in items but
// carries no meaning beyond determinism.
func MinElements[T comparable](items []T, ord PartialOrder[T]) []T {
	return MinElementsFunc(items, func(v T) T { return v }, ord)
}

// MinElementsFunc is MinElements for items that are not comparable. key
// decides which items are duplicates of each other.
func MinElementsFunc[T any, K comparable](items []T, key func(T) K, ord PartialOrder[T]) []T {
	seen := make(map[K]bool, len(items))
	unique := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, it)
	}

	result := make([]T, 0, len(unique))
	for i, x := range unique {
		dominated := false
		for j, y := range unique {
			if i != j && StrictlyLess(ord, y, x) {
				dominated = true
				break
			}
		}
		if !dominated {
			result = append(result, x)
		}
	}
	return result
}

// MinElementsSorted returns the minimal elements of items, which must already
// be sorted along a linear extension of ord: no item is strictly less than
// an item before it. Each item is compared only with the minimal elements
// found so far, and the scan stops once limit elements are found (a negative
// limit finds all). Duplicates are kept and the result follows item order.
func MinElementsSorted[T any](items []T, ord PartialOrder[T], limit int) []T {
	var result []T
	for _, x := range items {
		if limit >= 0 && len(result) >= limit {
			break
		}
		dominated := false
		for _, y := range result {
			if StrictlyLess(ord, y, x) {
				dominated = true
				break
			}
		}
		if !dominated {
			result = append(result, x)
		}
	}
	return result
}
