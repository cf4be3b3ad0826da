package bencode

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Kind int

const (
	KindBytes Kind = iota
	KindInteger
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInteger:
		return "integer"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one decoded bencode item: Bytes, Integer, List or *Dictionary.
type Value interface {
	Kind() Kind
	isValue()
}

type Bytes []byte

type Integer int64

type List []Value

// Document holds the top-level values decoded from a single buffer.
type Document []Value

func (Bytes) Kind() Kind       { return KindBytes }
func (Integer) Kind() Kind     { return KindInteger }
func (List) Kind() Kind        { return KindList }
func (*Dictionary) Kind() Kind { return KindDictionary }

func (Bytes) isValue()       {}
func (Integer) isValue()     {}
func (List) isValue()        {}
func (*Dictionary) isValue() {}

func (b Bytes) String() string {
	return string(b)
}

// Dictionary maps string keys to values and remembers the order keys were added in.
type Dictionary struct {
	keys    []string
	entries map[string]Value
}

func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]Value)}
}

// Set stores v under key. Replacing an existing key keeps its original position.
func (d *Dictionary) Set(key string, v Value) {
	if d.entries == nil {
		d.entries = make(map[string]Value)
	}
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = v
}

func (d *Dictionary) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.entries[key]
	return v, ok
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in the order they were added.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// SortedKeys returns the keys in raw byte order, the order canonical bencode requires.
func (d *Dictionary) SortedKeys() []string {
	keys := d.Keys()
	slices.Sort(keys)
	return keys
}

// Map returns an unordered shallow copy of the entries.
func (d *Dictionary) Map() map[string]Value {
	if d == nil {
		return map[string]Value{}
	}
	return maps.Clone(d.entries)
}

// Equal reports whether both dictionaries hold equal values under the same keys. Key order is ignored.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d.Len() != o.Len() {
		return false
	}
	for _, k := range d.Keys() {
		ov, ok := o.Get(k)
		if !ok || !Equal(d.entries[k], ov) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		return ok && av.Equal(bv)
	default:
		return a == nil && b == nil
	}
}
