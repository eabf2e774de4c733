package bencode

import (
	"bytes"
	"fmt"
)

// Kind identifies which of the four bencode primitives a Value holds.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindString
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a decoded bencode value. Only the field matching Kind is set.
// Dictionary keys are raw bytes stored in Go strings, so they compare bytewise.
type Value struct {
	Kind  Kind
	Int   int64
	Bytes []byte
	List  []Value
	Dict  map[string]Value
}

func Int(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

func String(s string) Value {
	return Value{Kind: KindString, Bytes: []byte(s)}
}

func Bytes(b []byte) Value {
	return Value{Kind: KindString, Bytes: b}
}

func List(items ...Value) Value {
	return Value{Kind: KindList, List: items}
}

func Dict(entries map[string]Value) Value {
	return Value{Kind: KindDict, Dict: entries}
}

// Str returns the byte string as a Go string.
func (v Value) Str() string {
	return string(v.Bytes)
}

// Equal reports whether v and o hold the same tree. Nil and empty
// lists or dictionaries compare equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindInteger:
		return v.Int == o.Int
	case KindString:
		return bytes.Equal(v.Bytes, o.Bytes)
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.Dict) != len(o.Dict) {
			return false
		}
		for k, item := range v.Dict {
			other, ok := o.Dict[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Clone returns a deep copy of v that shares no byte slices, lists or
// dictionaries with it.
func (v Value) Clone() Value {
	c := Value{Kind: v.Kind, Int: v.Int}
	if v.Bytes != nil {
		c.Bytes = bytes.Clone(v.Bytes)
	}
	if v.List != nil {
		c.List = make([]Value, len(v.List))
		for i, item := range v.List {
			c.List[i] = item.Clone()
		}
	}
	if v.Dict != nil {
		c.Dict = make(map[string]Value, len(v.Dict))
		for k, item := range v.Dict {
			c.Dict[k] = item.Clone()
		}
	}
	return c
}

// Interface converts the tree into plain Go values: int64, string,
// []any and map[string]any.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindString:
		return string(v.Bytes)
	case KindList:
		result := make([]any, 0, len(v.List))
		for _, item := range v.List {
			result = append(result, item.Interface())
		}
		return result
	case KindDict:
		result := make(map[string]any, len(v.Dict))
		for k, item := range v.Dict {
			result[k] = item.Interface()
		}
		return result
	default:
		return nil
	}
}
