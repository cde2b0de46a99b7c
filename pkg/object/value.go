// prtgcli/pkg/object/value.go

package object

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindStringList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an attribute value: a string, an integer or an ordered list of
// strings. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	list []string
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Integer(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// StringList copies items, so later changes to the caller's slice are not seen.
func StringList(items ...string) Value {
	list := make([]string, len(items))
	copy(list, items)
	return Value{kind: KindStringList, list: list}
}

func (v Value) Kind() Kind {
	return v.kind
}

// String renders the value for display: lists are joined with a single
// space and integers use their decimal form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindStringList:
		return strings.Join(v.list, " ")
	default:
		panic(fmt.Sprintf("object: unhandled value kind %v", v.kind))
	}
}

// Strings returns the value as a sequence. A string splits on whitespace, so
// "a b" and ["a", "b"] have the same sequence view.
func (v Value) Strings() []string {
	switch v.kind {
	case KindString:
		return strings.Fields(v.str)
	case KindInteger:
		return []string{strconv.FormatInt(v.num, 10)}
	case KindStringList:
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	default:
		panic(fmt.Sprintf("object: unhandled value kind %v", v.kind))
	}
}

// Int returns the integer held by v, if any.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.num, true
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.num == other.num
	case KindStringList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return v.str == other.str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return json.Marshal(v.num)
	case KindStringList:
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts strings, integral numbers and arrays. Non-integral
// numbers, booleans and null are kept as their string form; array elements
// that are not strings are stringified the same way.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("object: empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			var elem Value
			if err := elem.UnmarshalJSON(item); err != nil {
				return err
			}
			items = append(items, elem.String())
		}
		*v = Value{kind: KindStringList, list: items}
	case 'n':
		*v = String("")
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = String(strconv.FormatBool(b))
	case '{':
		return fmt.Errorf("object: nested objects are not attribute values")
	default:
		if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			*v = Integer(n)
			return nil
		}
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = String(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}
