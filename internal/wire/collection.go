package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type shape int

const (
	shapeAbsent shape = iota
	shapeArray
	shapeKeyed
	shapeInvalid
)

func shapeOf(raw json.RawMessage) shape {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return shapeAbsent
	case trimmed[0] == '[':
		return shapeArray
	case trimmed[0] == '{':
		return shapeKeyed
	default:
		return shapeInvalid
	}
}

// entry is one non-null element of a collection. key is the map key for the
// keyed shape and empty for arrays.
type entry struct {
	key string
	raw json.RawMessage
}

// entries flattens either collection shape into document order. Null
// elements are skipped.
func entries(raw json.RawMessage) ([]entry, error) {
	switch shapeOf(raw) {
	case shapeAbsent:
		return nil, nil
	case shapeArray:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		out := make([]entry, 0, len(items))
		for _, it := range items {
			if shapeOf(it) != shapeAbsent {
				out = append(out, entry{raw: it})
			}
		}
		return out, nil
	case shapeKeyed:
		return keyedEntries(raw)
	default:
		return nil, fmt.Errorf("collection must be an array or an object")
	}
}

// keyedEntries walks the object with a token decoder so entries keep the
// order they have in the document; map iteration would lose it.
func keyedEntries(raw json.RawMessage) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var out []entry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		if shapeOf(val) == shapeAbsent {
			continue
		}
		// A repeated key overwrites the value in place, as an object would.
		if i, dup := index[key]; dup {
			out[i].raw = val
			continue
		}
		index[key] = len(out)
		out = append(out, entry{key: key, raw: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeCollection decodes every entry of raw into T. An entity without an
// id takes its map key; entities that still lack an id are dropped.
func decodeCollection[T any](name string, raw json.RawMessage, idOf func(*T) *string) ([]T, error) {
	items, err := entries(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, name, err)
	}
	out := make([]T, 0, len(items))
	for _, e := range items {
		var v T
		if err := json.Unmarshal(e.raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %s[%s]: %v", ErrMalformedDocument, name, e.key, err)
		}
		id := idOf(&v)
		if *id == "" {
			*id = e.key
		}
		if *id == "" {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// encodeKeyed writes items as a JSON object keyed by id, in slice order.
// Items with an empty id are dropped. A repeated id keeps its first position
// and its last value.
func encodeKeyed[T any](items []T, idOf func(T) string) (json.RawMessage, error) {
	var keys []string
	vals := make(map[string]json.RawMessage, len(items))
	for _, it := range items {
		id := idOf(it)
		if id == "" {
			continue
		}
		b, err := json.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", id, err)
		}
		if _, seen := vals[id]; !seen {
			keys = append(keys, id)
		}
		vals[id] = b
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
