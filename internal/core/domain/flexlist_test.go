package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlexList_Serialized_ZeroValue tests that an absent field serializes to an empty array
func TestFlexList_Serialized_ZeroValue(t *testing.T) {
	var f FlexList

	assert.True(t, f.IsEmpty())
	assert.Equal(t, "[]", f.Serialized())
}

// TestFlexList_Serialized_Structured tests serializing a structured list
func TestFlexList_Serialized_Structured(t *testing.T) {
	f := NewFlexList("a", "b")

	assert.False(t, f.IsEmpty())
	assert.Equal(t, `["a","b"]`, f.Serialized())
}

// TestFlexList_Serialized_TextPassthrough tests that pre-serialized text is never re-encoded
func TestFlexList_Serialized_TextPassthrough(t *testing.T) {
	f := FlexListFromText(`["a","b"]`)

	out := f.Serialized()
	assert.Equal(t, `["a","b"]`, out)

	// Serializing twice stays stable.
	again := FlexListFromText(out)
	assert.Equal(t, out, again.Serialized())
}

// TestFlexList_Serialized_BlankText tests that whitespace-only text collapses to an empty array
func TestFlexList_Serialized_BlankText(t *testing.T) {
	f := FlexListFromText("   ")

	assert.True(t, f.IsEmpty())
	assert.Equal(t, "[]", f.Serialized())
}

// TestFlexList_Serialized_NonArrayValue tests that a structured non-array is wrapped as an array
func TestFlexList_Serialized_NonArrayValue(t *testing.T) {
	var f FlexList
	require.NoError(t, json.Unmarshal([]byte(`{"path":"main.go"}`), &f))

	assert.Equal(t, `[{"path":"main.go"}]`, f.Serialized())
}

// TestFlexList_UnmarshalJSON_Array tests decoding a structured array
func TestFlexList_UnmarshalJSON_Array(t *testing.T) {
	var f FlexList
	require.NoError(t, json.Unmarshal([]byte(`["x", "y", "z"]`), &f))

	assert.Equal(t, `["x","y","z"]`, f.Serialized())
	assert.Equal(t, []string{"x", "y", "z"}, f.Items())
}

// TestFlexList_UnmarshalJSON_SerializedString tests decoding text that already holds an array
func TestFlexList_UnmarshalJSON_SerializedString(t *testing.T) {
	var f FlexList
	require.NoError(t, json.Unmarshal([]byte(`"[\"x\",\"y\"]"`), &f))

	// Passed through, not double-encoded to a quoted string.
	assert.Equal(t, `["x","y"]`, f.Serialized())
}

// TestFlexList_UnmarshalJSON_Null tests decoding an explicit null
func TestFlexList_UnmarshalJSON_Null(t *testing.T) {
	var f FlexList
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))

	assert.True(t, f.IsEmpty())
	assert.Equal(t, "[]", f.Serialized())
}

// TestFlexList_UnmarshalJSON_MixedElements tests arrays holding non-string elements
func TestFlexList_UnmarshalJSON_MixedElements(t *testing.T) {
	var f FlexList
	require.NoError(t, json.Unmarshal([]byte(`["a", 7, {"k": true}]`), &f))

	assert.Equal(t, `["a",7,{"k":true}]`, f.Serialized())
	assert.Equal(t, []string{"a", "7", `{"k":true}`}, f.Items())
}

// TestFlexList_Items_FromText tests decoding items out of pre-serialized text
func TestFlexList_Items_FromText(t *testing.T) {
	f := FlexListFromText(`["one","two"]`)

	assert.Equal(t, []string{"one", "two"}, f.Items())
}

// TestFlexList_Items_UnparsableText tests that garbage text yields no items but still serializes
func TestFlexList_Items_UnparsableText(t *testing.T) {
	f := FlexListFromText("not json at all")

	assert.Nil(t, f.Items())
	// The text form is trusted verbatim.
	assert.Equal(t, "not json at all", f.Serialized())
}

// TestFlexList_Items_Empty tests items of an empty list
func TestFlexList_Items_Empty(t *testing.T) {
	var f FlexList

	assert.Nil(t, f.Items())
}

// TestFlexList_Scan_String tests scanning a text column value
func TestFlexList_Scan_String(t *testing.T) {
	var f FlexList
	require.NoError(t, f.Scan(`["db"]`))

	assert.Equal(t, `["db"]`, f.Serialized())
}

// TestFlexList_Scan_Bytes tests scanning a bytes column value
func TestFlexList_Scan_Bytes(t *testing.T) {
	var f FlexList
	require.NoError(t, f.Scan([]byte(`["db"]`)))

	assert.Equal(t, `["db"]`, f.Serialized())
}

// TestFlexList_Scan_Nil tests scanning a NULL column value
func TestFlexList_Scan_Nil(t *testing.T) {
	f := NewFlexList("stale")
	require.NoError(t, f.Scan(nil))

	assert.True(t, f.IsEmpty())
	assert.Equal(t, "[]", f.Serialized())
}

// TestFlexList_Scan_UnsupportedType tests scanning a type the column cannot hold
func TestFlexList_Scan_UnsupportedType(t *testing.T) {
	var f FlexList
	err := f.Scan(42)

	assert.Error(t, err)
}

// TestFlexList_Value_RoundTrip tests that the driver value is the serialized form
func TestFlexList_Value_RoundTrip(t *testing.T) {
	f := NewFlexList("a")

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, v)

	var back FlexList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, `["a"]`, back.Serialized())
}

// TestFlexList_MarshalJSON_Structured tests marshalling the structured form
func TestFlexList_MarshalJSON_Structured(t *testing.T) {
	out, err := json.Marshal(NewFlexList("a", "b"))
	require.NoError(t, err)

	assert.JSONEq(t, `["a","b"]`, string(out))
}

// TestFlexList_MarshalJSON_TextForm tests marshalling valid pre-serialized text
func TestFlexList_MarshalJSON_TextForm(t *testing.T) {
	out, err := json.Marshal(FlexListFromText(`["a"]`))
	require.NoError(t, err)

	assert.JSONEq(t, `["a"]`, string(out))
}

// TestFlexList_MarshalJSON_InvalidText tests marshalling text that is not valid JSON
func TestFlexList_MarshalJSON_InvalidText(t *testing.T) {
	out, err := json.Marshal(FlexListFromText("plain words"))
	require.NoError(t, err)

	assert.Equal(t, `"plain words"`, string(out))
}

// TestFlexList_MarshalJSON_Empty tests marshalling the zero value
func TestFlexList_MarshalJSON_Empty(t *testing.T) {
	out, err := json.Marshal(FlexList{})
	require.NoError(t, err)

	assert.Equal(t, "[]", string(out))
}
