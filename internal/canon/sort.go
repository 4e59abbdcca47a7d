package canon

import (
	"slices"
	"strings"
)

// SortValue canonicalizes a decoded tree in place and returns it.
//
// Objects need no reordering here: keys are emitted sorted by the serializer,
// so only their values are visited. Arrays are left completely untouched,
// descendants included, unless sortArrays is set. With sortArrays, an array
// whose elements are all strings is stable-sorted by lowercase text, and every
// element is then visited.
func SortValue(v any, sortArrays bool) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = SortValue(child, sortArrays)
		}
	case []any:
		if !sortArrays {
			return val
		}

		if allStrings(val) {
			slices.SortStableFunc(val, func(a, b any) int {
				return strings.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
			})
		}

		for i, item := range val {
			val[i] = SortValue(item, sortArrays)
		}
	}

	return v
}

func allStrings(items []any) bool {
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}

	return true
}
