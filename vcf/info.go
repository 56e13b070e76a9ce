package vcf

import "strings"

// ValueKind tags the three shapes an INFO value can take.
type ValueKind uint8

const (
	Flag ValueKind = iota
	Scalar
	List
)

// Value is a single INFO entry. Items is empty for flags, holds one element
// for scalars and one element per comma-separated item for lists.
type Value struct {
	Kind  ValueKind
	Items []string
}

// String renders the value as a table cell: "true" for flags, the raw text
// for scalars and the comma-joined raw text for lists.
func (v Value) String() string {
	if v.Kind == Flag {
		return "true"
	}
	return strings.Join(v.Items, ",")
}

// Info holds a record's INFO entries keyed by name, remembering the order in
// which keys first appeared.
type Info struct {
	keys   []string
	values map[string]Value
}

// ParseInfo decodes the INFO column. The missing token yields an empty Info.
// A repeated key keeps its first position but the last value wins.
func ParseInfo(text string) *Info {
	in := &Info{}
	if text == Missing || text == "" {
		return in
	}

	in.values = make(map[string]Value)
	for _, entry := range strings.Split(text, ";") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		key := parts[0]
		if _, ok := in.values[key]; !ok {
			in.keys = append(in.keys, key)
		}
		switch {
		case len(parts) == 1:
			in.values[key] = Value{Kind: Flag}
		case strings.Contains(parts[1], ","):
			in.values[key] = Value{Kind: List, Items: strings.Split(parts[1], ",")}
		default:
			in.values[key] = Value{Kind: Scalar, Items: []string{parts[1]}}
		}
	}
	return in
}

// Keys returns the key names in first-seen order.
func (in *Info) Keys() []string {
	return in.keys
}

// Get returns the value for key and whether the key is present.
func (in *Info) Get(key string) (Value, bool) {
	v, ok := in.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (in *Info) Len() int {
	return len(in.keys)
}
