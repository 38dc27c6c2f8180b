// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"strings"

	"github.com/gogama/wasihttp/host"
)

// A Field is a single header name/value pair.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered, case-preserving list of request header fields.
//
// Names are matched case-insensitively, but are sent exactly as the
// caller spelled them. The zero value is an empty header.
type Header struct {
	fields []Field
}

// HeaderOf returns a Header containing pairs, in order.
func HeaderOf(pairs ...[2]string) Header {
	var h Header
	for _, p := range pairs {
		h.Add(p[0], p[1])
	}
	return h
}

// Set replaces all values for name with the single value. The new field
// takes the position of the first field it replaces, or goes last if
// there was none.
func (h *Header) Set(name, value string) {
	i := h.index(name)
	if i < 0 {
		h.fields = append(h.fields, Field{Name: name, Value: value})
		return
	}
	h.fields[i] = Field{Name: name, Value: value}
	kept := h.fields[:i+1]
	for _, f := range h.fields[i+1:] {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Add appends value to the values for name.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Get returns the first value for name, or "" if there is none.
func (h *Header) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h.fields[i].Value
	}
	return ""
}

// Values returns all values for name, in order.
func (h *Header) Values(name string) []string {
	var values []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Del removes all values for name.
func (h *Header) Del(name string) {
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the fields, in order.
func (h *Header) Fields() []Field {
	if len(h.fields) == 0 {
		return nil
	}
	return append([]Field(nil), h.fields...)
}

// Clone returns an independent copy of h.
func (h *Header) Clone() Header {
	return Header{fields: h.Fields()}
}

// Entries converts h into the host's field list representation.
func (h *Header) Entries() []host.FieldEntry {
	entries := make([]host.FieldEntry, len(h.fields))
	for i, f := range h.fields {
		entries[i] = host.FieldEntry{Name: f.Name, Value: []byte(f.Value)}
	}
	return entries
}

func (h *Header) index(name string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}
