package canon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortValue_StringArrayCaseInsensitiveStable(t *testing.T) {
	v := []any{"a", "A", "z", "Z", "m", "M"}

	SortValue(v, true)
	assert.Equal(t, []any{"a", "A", "m", "M", "z", "Z"}, v)
}

func TestSortValue_StableAmongEqualKeys(t *testing.T) {
	v := []any{"B", "b", "a", "A", "b"}

	SortValue(v, true)
	assert.Equal(t, []any{"a", "A", "B", "b", "b"}, v)
}

func TestSortValue_MixedArrayNotReordered(t *testing.T) {
	v := []any{"b", json.Number("1"), "a"}

	SortValue(v, true)
	assert.Equal(t, []any{"b", json.Number("1"), "a"}, v)
}

func TestSortValue_ArraysUntouchedWhenDisabled(t *testing.T) {
	inner := []any{"z", "a"}
	v := []any{inner, "c", "b"}

	SortValue(v, false)
	assert.Equal(t, []any{[]any{"z", "a"}, "c", "b"}, v)
}

func TestSortValue_NoRecursionIntoArraysWhenDisabled(t *testing.T) {
	v := map[string]any{
		"list": []any{map[string]any{"tags": []any{"y", "x"}}},
		"tags": []any{"b", "a"},
	}

	SortValue(v, false)

	assert.Equal(t, []any{"b", "a"}, v["tags"])
	nested := v["list"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"y", "x"}, nested["tags"])
}

func TestSortValue_RecursesAfterSorting(t *testing.T) {
	v := []any{
		[]any{"d", "c"},
		map[string]any{"k": []any{"Y", "x"}},
		json.Number("3"),
	}

	SortValue(v, true)

	assert.Equal(t, []any{"c", "d"}, v[0])
	assert.Equal(t, []any{"x", "Y"}, v[1].(map[string]any)["k"])
	assert.Equal(t, json.Number("3"), v[2])
}

func TestSortValue_ObjectValuesVisited(t *testing.T) {
	v := map[string]any{"a": map[string]any{"b": []any{"2", "10", "1"}}}

	SortValue(v, true)
	assert.Equal(t, []any{"1", "10", "2"}, v["a"].(map[string]any)["b"])
}

func TestSortValue_PreservesContent(t *testing.T) {
	v := map[string]any{"b": []any{"q", "p"}, "a": nil, "c": true}

	got := SortValue(v, true).(map[string]any)
	assert.Len(t, got, 3)
	assert.ElementsMatch(t, []any{"p", "q"}, got["b"])
	assert.Nil(t, got["a"])
	assert.Equal(t, true, got["c"])
}

func TestSortValue_Scalars(t *testing.T) {
	for _, v := range []any{nil, true, "s", json.Number("1.5")} {
		assert.Equal(t, v, SortValue(v, true))
	}
}

func TestSortValue_EmptyArray(t *testing.T) {
	assert.Equal(t, []any{}, SortValue([]any{}, true))
}
