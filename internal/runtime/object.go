package runtime

import "strings"

// Object is an ordered string-keyed map. It is immutable: With returns a
// modified copy and leaves the receiver untouched.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject builds an object from keys and values given in order. A
// repeated key keeps its first position and takes the last value.
func NewObject(keys []string, values []Value) Object {
	o := Object{values: make(map[string]Value, len(keys))}
	for i, k := range keys {
		if _, ok := o.values[k]; !ok {
			o.keys = append(o.keys, k)
		}
		o.values[k] = values[i]
	}
	return o
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// With returns a copy of o with key set to v. An existing key keeps its
// position; a new key goes last.
func (o Object) With(key string, v Value) Object {
	out := Object{
		keys:   make([]string, len(o.keys), len(o.keys)+1),
		values: make(map[string]Value, len(o.values)+1),
	}
	copy(out.keys, o.keys)
	for k, val := range o.values {
		out.values[k] = val
	}
	if _, ok := out.values[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.values[key] = v
	return out
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o Object) Len() int {
	return len(o.keys)
}

// equal ignores key order.
func (o Object) equal(other Object) bool {
	if len(o.keys) != len(other.keys) {
		return false
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

func (o Object) String() string {
	members := make([]string, len(o.keys))
	for i, k := range o.keys {
		members[i] = k + ": " + Repr(o.values[k])
	}
	return "{" + strings.Join(members, ", ") + "}"
}
