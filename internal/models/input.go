package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ListEncoding tells which wire form a StringList arrived in.
type ListEncoding int

const (
	ListUnset ListEncoding = iota
	ListSequence
	ListDelimited
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string. Values normalizes both forms the same way.
type StringList struct {
	Encoding ListEncoding
	Items    []string
	Raw      string
}

// ListOf builds a sequence-encoded list.
func ListOf(items ...string) StringList {
	return StringList{Encoding: ListSequence, Items: items}
}

// Delimited builds a string-encoded list.
func Delimited(raw string) StringList {
	return StringList{Encoding: ListDelimited, Raw: raw}
}

// IsSet reports whether the field was present in the payload.
func (l StringList) IsSet() bool {
	return l.Encoding != ListUnset
}

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = StringList{}
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return errors.New("must be a list of strings or a comma-separated string")
		}
		*l = ListOf(items...)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("must be a list of strings or a comma-separated string")
	}
	*l = Delimited(raw)
	return nil
}

// Values returns the trimmed, non-empty items. A delimited string that is
// itself a JSON array (form-data clients stringify arrays) is decoded first.
func (l StringList) Values() []string {
	var items []string
	switch l.Encoding {
	case ListSequence:
		items = l.Items
	case ListDelimited:
		raw := strings.TrimSpace(l.Raw)
		if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &items) == nil {
			break
		}
		items = strings.Split(raw, ",")
	default:
		return nil
	}
	return trimAll(items)
}

// BoolInput accepts a JSON boolean or the strings "true"/"false".
type BoolInput struct {
	Set   bool
	Value bool
}

// BoolOf builds a present boolean.
func BoolOf(v bool) BoolInput {
	return BoolInput{Set: true, Value: v}
}

func (f *BoolInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = BoolInput{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = BoolOf(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("must be a boolean")
	}
	if strings.TrimSpace(s) == "" {
		*f = BoolOf(false)
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a boolean")
	}
	*f = BoolOf(v)
	return nil
}
