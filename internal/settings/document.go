// Package settings parses, merges, and re-encodes 3MF project settings
// documents. Slicers are sensitive to both key order and value spelling, so
// the document model preserves the order keys were first seen in and carries
// scalar tokens verbatim instead of converting through native types.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type valueKind uint8

const (
	kindString valueKind = iota
	kindLiteral
	kindArray
	kindObject
)

// Value is a single JSON value inside a settings document. Strings hold the
// decoded text; numbers, booleans, and null hold their source token.
type Value struct {
	kind  valueKind
	str   string
	lit   string
	items []Value
	obj   *Document
}

// Document is a JSON object with stable key order. Duplicate keys in the
// source keep the first position and the last value.
type Document struct {
	keys   []string
	fields map[string]Value
}

// Parse reads a settings document. The root must be an object.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("settings: parse: %w", err)
	}
	if v.kind != kindObject {
		return nil, errors.New("settings: parse: document root is not an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("settings: parse: trailing data after document")
	}
	return v.obj, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := &Document{fields: make(map[string]Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, dup := doc.fields[key]; !dup {
					doc.keys = append(doc.keys, key)
				}
				doc.fields[key] = val
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: kindObject, obj: doc}, nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: kindArray, items: items}, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return Value{kind: kindString, str: t}, nil
	case json.Number:
		return Value{kind: kindLiteral, lit: t.String()}, nil
	case bool:
		if t {
			return Value{kind: kindLiteral, lit: "true"}, nil
		}
		return Value{kind: kindLiteral, lit: "false"}, nil
	case nil:
		return Value{kind: kindLiteral, lit: "null"}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// Encode renders the document with 4-space indentation, ": " key separators,
// minimally escaped strings, and non-ASCII text left raw. There is no
// trailing newline. Encoding the same document twice yields identical bytes.
func (d *Document) Encode() []byte {
	var b bytes.Buffer
	writeObject(&b, d, 0)
	return b.Bytes()
}

func writeValue(b *bytes.Buffer, v Value, level int) {
	switch v.kind {
	case kindString:
		writeString(b, v.str)
	case kindLiteral:
		b.WriteString(v.lit)
	case kindArray:
		writeArray(b, v.items, level)
	case kindObject:
		writeObject(b, v.obj, level)
	}
}

func writeObject(b *bytes.Buffer, d *Document, level int) {
	if d == nil || len(d.keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, level+1)
		writeString(b, key)
		b.WriteString(": ")
		writeValue(b, d.fields[key], level+1)
	}
	b.WriteByte('\n')
	writeIndent(b, level)
	b.WriteByte('}')
}

func writeArray(b *bytes.Buffer, items []Value, level int) {
	if len(items) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, level+1)
		writeValue(b, item, level+1)
	}
	b.WriteByte('\n')
	writeIndent(b, level)
	b.WriteByte(']')
}

func writeIndent(b *bytes.Buffer, level int) {
	for i := 0; i < level*4; i++ {
		b.WriteByte(' ')
	}
}

func writeString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

// Clone returns a deep copy sharing nothing with the receiver.
func (d *Document) Clone() *Document {
	nd := &Document{
		keys:   append([]string(nil), d.keys...),
		fields: make(map[string]Value, len(d.fields)),
	}
	for k, v := range d.fields {
		nd.fields[k] = v.clone()
	}
	return nd
}

func (v Value) clone() Value {
	nv := v
	if v.items != nil {
		nv.items = make([]Value, len(v.items))
		for i, item := range v.items {
			nv.items[i] = item.clone()
		}
	}
	if v.obj != nil {
		nv.obj = v.obj.Clone()
	}
	return nv
}

// Keys returns the document's keys in order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// StringArray returns the named array's elements as strings: string elements
// decoded, scalar tokens verbatim, nested values as empty strings. Absent
// keys and non-array values return nil.
func (d *Document) StringArray(key string) []string {
	v, ok := d.fields[key]
	if !ok || v.kind != kindArray {
		return nil
	}
	out := make([]string, len(v.items))
	for i, item := range v.items {
		switch item.kind {
		case kindString:
			out[i] = item.str
		case kindLiteral:
			out[i] = item.lit
		}
	}
	return out
}

// SetStringArray replaces the named key with an array of strings. An
// existing key keeps its position; a new key is appended.
func (d *Document) SetStringArray(key string, elems []string) {
	items := make([]Value, len(elems))
	for i, s := range elems {
		items[i] = Value{kind: kindString, str: s}
	}
	d.set(key, Value{kind: kindArray, items: items})
}

func (d *Document) set(key string, v Value) {
	if d.fields == nil {
		d.fields = make(map[string]Value)
	}
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = v
}
