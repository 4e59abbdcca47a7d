// Package maputil deep-copies decoded JSON trees so that callers of the
// public API never observe their input being reordered.
package maputil

// DeepCopy copies a decoded JSON value. Objects (map[string]any) and arrays
// ([]any) are copied recursively; every other value is shared.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return DeepCopyMap(val)
	case []any:
		return DeepCopySlice(val)
	default:
		return v
	}
}

// DeepCopyMap performs a deep copy of an object.
func DeepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = DeepCopy(v)
	}

	return dst
}

// DeepCopySlice performs a deep copy of an array.
func DeepCopySlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, v := range src {
		dst[i] = DeepCopy(v)
	}

	return dst
}
