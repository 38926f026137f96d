// Package seqs provides small sequence helpers used when wrangling column
// name lists. All functions return fresh slices and leave their inputs
// untouched.
package seqs

// Intersect returns the elements of a that also appear in b, in a's order,
// deduplicated.
func Intersect[T comparable](a, b []T) []T {
	inB := make(map[T]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	var out []T
	seen := make(map[T]struct{}, len(a))
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Difference returns the elements of a that do not appear in b, in a's
// order, deduplicated.
func Difference[T comparable](a, b []T) []T {
	inB := make(map[T]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	var out []T
	seen := make(map[T]struct{}, len(a))
	for _, v := range a {
		if _, ok := inB[v]; ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Union returns a followed by b with duplicates removed, preserving first
// occurrence order.
func Union[T comparable](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	seen := make(map[T]struct{}, len(a)+len(b))
	for _, v := range a {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Dedupe removes duplicates from s, preserving first occurrence order.
func Dedupe[T comparable](s []T) []T {
	return Union(s, nil)
}

// WithSuffixes combines every base with every suffix, in base-major order.
// With includeBase, each base precedes its suffixed forms. The result is
// deduplicated.
//
// WithSuffixes([]string{"a", "b"}, []string{"_l4w", "_l2w"}, false) returns
// ["a_l4w", "a_l2w", "b_l4w", "b_l2w"].
func WithSuffixes(base, suffixes []string, includeBase bool) []string {
	out := make([]string, 0, len(base)*(len(suffixes)+1))
	for _, b := range base {
		if includeBase {
			out = append(out, b)
		}
		for _, suf := range suffixes {
			out = append(out, b+suf)
		}
	}
	return Dedupe(out)
}

// Wrap normalizes a single item or a slice into a slice: a nil pointer
// yields an empty slice, anything else a one-element slice. It mirrors the
// "accept a string or a list of strings" convenience common at CLI
// boundaries.
func Wrap[T any](item *T) []T {
	if item == nil {
		return []T{}
	}
	return []T{*item}
}
