package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// emptyListText is the serialized form of an absent or empty list field.
const emptyListText = "[]"

// FlexList holds a list-valued observation field whose inbound representation
// varies. Agent hooks send structured JSON arrays; older hooks and some stored
// rows carry the list already serialized as text. FlexList accepts both and
// converges on a single serialized form via Serialized.
//
// The zero value is an empty list.
type FlexList struct {
	// raw holds the structured form, verbatim JSON, when the field arrived
	// as an array (or any non-string JSON value).
	raw json.RawMessage

	// text holds the pre-serialized form. It is trusted verbatim: callers
	// that wrote it are responsible for having serialized an array.
	text string

	// isText distinguishes an explicitly-set empty text form from the zero value.
	isText bool
}

// NewFlexList builds a structured list from string items.
func NewFlexList(items ...string) FlexList {
	if len(items) == 0 {
		return FlexList{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		// []string cannot fail to marshal; keep the zero value if it somehow does.
		return FlexList{}
	}
	return FlexList{raw: raw}
}

// FlexListFromText wraps an already-serialized list without re-encoding it.
func FlexListFromText(s string) FlexList {
	if strings.TrimSpace(s) == "" {
		return FlexList{}
	}
	return FlexList{text: s, isText: true}
}

// IsEmpty reports whether the field carries no value in either form.
func (f FlexList) IsEmpty() bool {
	return len(f.raw) == 0 && !f.isText
}

// Serialized returns the field as JSON-array text. This is the single
// conversion used for every collection field during normalization:
//
//   - absent or empty            -> "[]"
//   - pre-serialized text        -> passed through unchanged, never re-encoded
//   - structured array           -> compact JSON of the array
//   - structured non-array value -> wrapped as a one-element array
//
// The result is always non-empty text, so downstream consumers never see a
// structured value or a null.
func (f FlexList) Serialized() string {
	if f.isText {
		if strings.TrimSpace(f.text) == "" {
			return emptyListText
		}
		return f.text
	}
	if len(f.raw) == 0 {
		return emptyListText
	}
	compact := compactJSON(f.raw)
	if len(compact) > 0 && compact[0] == '[' {
		return string(compact)
	}
	return "[" + string(compact) + "]"
}

// Items decodes the field into string items on a best-effort basis.
// Pre-serialized text is parsed once; elements that are not strings are
// rendered with their JSON representation. Unparsable text yields nil.
func (f FlexList) Items() []string {
	var src json.RawMessage
	switch {
	case len(f.raw) > 0:
		src = f.raw
	case f.isText && strings.TrimSpace(f.text) != "":
		src = json.RawMessage(f.text)
	default:
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(src, &elems); err != nil {
		return nil
	}
	items := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			items = append(items, s)
			continue
		}
		items = append(items, string(compactJSON(e)))
	}
	return items
}

// UnmarshalJSON accepts the union of shapes the field may arrive in:
// a JSON array (or any structured value), a JSON string holding the
// pre-serialized form, or null.
func (f *FlexList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = FlexList{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode list text: %w", err)
		}
		*f = FlexListFromText(s)
		return nil
	}
	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)
	*f = FlexList{raw: raw}
	return nil
}

// MarshalJSON renders the field as a JSON array whenever one can be produced,
// falling back to a JSON string for pre-serialized text that is not valid JSON.
func (f FlexList) MarshalJSON() ([]byte, error) {
	if f.IsEmpty() {
		return []byte(emptyListText), nil
	}
	if len(f.raw) > 0 {
		return compactJSON(f.raw), nil
	}
	if json.Valid([]byte(f.text)) {
		return compactJSON(json.RawMessage(f.text)), nil
	}
	return json.Marshal(f.text)
}

// Scan implements sql.Scanner. Stored rows hold the serialized text form.
func (f *FlexList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*f = FlexList{}
		return nil
	case string:
		*f = FlexListFromText(v)
		return nil
	case []byte:
		*f = FlexListFromText(string(v))
		return nil
	default:
		return fmt.Errorf("scan list field: unsupported type %T", value)
	}
}

// Value implements driver.Valuer, persisting the serialized form.
func (f FlexList) Value() (driver.Value, error) {
	return f.Serialized(), nil
}

// compactJSON strips insignificant whitespace, returning the input on failure.
func compactJSON(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
