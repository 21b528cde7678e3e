// Package types holds scalar helpers shared by the raw upstream schemas.
// Scraper-backed APIs are loose about JSON types: the same field arrives as
// a number on one page and as a string on the next.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var null = []byte("null")

// FlexString accepts a JSON string, number or boolean and keeps its text form.
// null and absent fields decode to the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	switch data[0] {
	case '{', '[':
		return fmt.Errorf("cannot decode %s into FlexString", data)
	}

	*f = FlexString(data)
	return nil
}

// String returns the text value
func (f FlexString) String() string {
	return string(f)
}

// FlexInt accepts a JSON number or a numeric string. Values that carry no
// number (null, "", "?", false) decode as absent.
type FlexInt struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}

	text := strings.TrimSpace(s.String())
	n, err := strconv.Atoi(text)
	if err != nil {
		// Accept "12.0" style numbers
		fl, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			*f = FlexInt{}
			return nil
		}
		n = int(fl)
	}

	*f = FlexInt{Value: n, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return null, nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Int returns a valid FlexInt
func Int(n int) FlexInt {
	return FlexInt{Value: n, Valid: true}
}

// Truthy reports whether the raw value should be treated as present, the way
// the upstream uses null/false/0 to mean "no such episode".
func (f FlexInt) Truthy() bool {
	return f.Valid && f.Value != 0
}
