package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID is an entity identifier that the upstream API emits inconsistently:
// some endpoints send numbers, others send strings. It normalizes both to a
// string so that IDs from different endpoints compare equal.
type FlexID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON emits the ID as a number when it is numeric, preserving the
// common upstream representation, and as a string otherwise. Only canonical
// decimal forms go out as numbers: "042" or "+7" parse as integers but are
// not valid JSON number tokens.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(f), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(f) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

// IsZero reports whether no ID was present in the payload.
func (f FlexID) IsZero() bool { return f == "" }

// Equal compares two IDs after string normalization.
func (f FlexID) Equal(other FlexID) bool {
	return f != "" && f == other
}

// FlexTags is a tag field of unknown shape: either a JSON array of strings or
// a single delimited string. Raw values are preserved as received; canonical
// form is produced by feed.NormalizeTags.
type FlexTags struct {
	// List holds the values when the payload was an array.
	List []string
	// Raw holds the value when the payload was a single string.
	Raw string
	// IsList records which representation arrived.
	IsList bool
}

// UnmarshalJSON accepts an array of strings, a single string, or anything
// else (which yields the empty value).
func (t *FlexTags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = FlexTags{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			// Mixed-type arrays; salvage the string elements.
			list = nil
			var anyList []any
			if err2 := json.Unmarshal(data, &anyList); err2 != nil {
				return nil
			}
			for _, v := range anyList {
				if s, ok := v.(string); ok {
					list = append(list, s)
				}
			}
		}
		t.List = list
		t.IsList = true
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Raw = s
	}
	// Objects and other shapes stay empty.
	return nil
}

// MarshalJSON round-trips the received representation.
func (t FlexTags) MarshalJSON() ([]byte, error) {
	if t.IsList {
		return json.Marshal(t.List)
	}
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return []byte("null"), nil
}

// IsEmpty reports whether the field carried no usable tag data.
func (t FlexTags) IsEmpty() bool {
	return !t.IsList && strings.TrimSpace(t.Raw) == ""
}
