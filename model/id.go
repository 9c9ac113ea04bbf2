package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a record identifier that remembers whether it was written as a JSON
// number or a JSON string, so documents round-trip without changing shape.
type ID struct {
	value   string
	numeric bool
}

// IntID returns a numeric id.
func IntID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// StringID returns a string id. The value is kept verbatim.
func StringID(s string) ID {
	return ID{value: s}
}

// ParseID turns a path or query parameter into an id. All-digit input becomes
// a numeric id, anything else stays a string.
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return StringID(s)
}

func (id ID) String() string { return id.value }

// Numeric reports whether the id is represented as a JSON number.
func (id ID) Numeric() bool { return id.numeric }

func (id ID) IsZero() bool { return id.value == "" && !id.numeric }

// Int64 returns the integer value of a numeric id.
func (id ID) Int64() (int64, bool) {
	if !id.numeric {
		return 0, false
	}
	n, err := strconv.ParseInt(id.value, 10, 64)
	return n, err == nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ID{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}
