// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A HeaderError is returned when a Fields operation is rejected.
type HeaderError int

const (
	// InvalidSyntax indicates a malformed field name or value.
	InvalidSyntax HeaderError = iota
	// Forbidden indicates a field the host does not allow the guest to
	// set, such as a hop-by-hop header.
	Forbidden
	// Immutable indicates an attempt to modify a read-only Fields.
	Immutable
)

func (e HeaderError) Error() string {
	switch e {
	case InvalidSyntax:
		return "wasihttp/host: invalid header syntax"
	case Forbidden:
		return "wasihttp/host: forbidden header"
	default:
		return "wasihttp/host: immutable headers"
	}
}

// ForbiddenFields lists field names, in lower case, which the host
// manages itself and rejects from guests.
var ForbiddenFields = []string{
	"connection",
	"keep-alive",
	"proxy-connection",
	"transfer-encoding",
	"upgrade",
	"host",
	"http2-settings",
}

// A FieldEntry is a single name/value pair. Value holds raw bytes.
type FieldEntry struct {
	Name  string
	Value []byte
}

// Fields is an ordered multi-map of HTTP header fields. Names are
// matched case-insensitively but reported as they were given.
type Fields struct {
	res       resource
	entries   []FieldEntry
	immutable bool
}

// NewFields returns an empty, mutable Fields.
func NewFields() *Fields {
	f := &Fields{}
	f.res.init("fields", nil)
	return f
}

// FieldsFromList returns a mutable Fields containing entries, in order.
// Each entry is validated; the first invalid entry fails the whole
// construction.
func FieldsFromList(entries []FieldEntry) (*Fields, error) {
	for _, e := range entries {
		if err := ValidateField(e.Name, e.Value); err != nil {
			return nil, err
		}
	}
	f := NewFields()
	f.entries = cloneEntries(entries)
	return f, nil
}

// ReceivedFields returns Fields holding entries exactly as a host
// backend received them from the network. No validation is applied,
// since received values may contain bytes a guest could never set.
func ReceivedFields(entries []FieldEntry) *Fields {
	f := NewFields()
	f.entries = cloneEntries(entries)
	return f
}

// ValidateField reports whether the host would accept name and value.
// It returns InvalidSyntax or Forbidden on rejection.
func ValidateField(name string, value []byte) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return InvalidSyntax
	}
	if !httpguts.ValidHeaderFieldValue(string(value)) {
		return InvalidSyntax
	}
	lower := strings.ToLower(name)
	for _, forbidden := range ForbiddenFields {
		if lower == forbidden {
			return Forbidden
		}
	}
	return nil
}

// Get returns all values for name, in order.
func (f *Fields) Get(name string) [][]byte {
	f.res.use("get")
	var values [][]byte
	for _, e := range f.entries {
		if strings.EqualFold(e.Name, name) {
			values = append(values, append([]byte(nil), e.Value...))
		}
	}
	return values
}

// Has reports whether at least one value exists for name.
func (f *Fields) Has(name string) bool {
	f.res.use("has")
	for _, e := range f.entries {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// Set replaces all values for name with values.
func (f *Fields) Set(name string, values [][]byte) error {
	f.res.use("set")
	if f.immutable {
		return Immutable
	}
	for _, v := range values {
		if err := ValidateField(name, v); err != nil {
			return err
		}
	}
	f.remove(name)
	for _, v := range values {
		f.entries = append(f.entries, FieldEntry{Name: name, Value: append([]byte(nil), v...)})
	}
	return nil
}

// Append adds value to the values for name.
func (f *Fields) Append(name string, value []byte) error {
	f.res.use("append")
	if f.immutable {
		return Immutable
	}
	if err := ValidateField(name, value); err != nil {
		return err
	}
	f.entries = append(f.entries, FieldEntry{Name: name, Value: append([]byte(nil), value...)})
	return nil
}

// Delete removes all values for name.
func (f *Fields) Delete(name string) error {
	f.res.use("delete")
	if f.immutable {
		return Immutable
	}
	f.remove(name)
	return nil
}

// Entries returns a copy of all entries, in order.
func (f *Fields) Entries() []FieldEntry {
	f.res.use("entries")
	return cloneEntries(f.entries)
}

// Clone returns a mutable, independent copy of f.
func (f *Fields) Clone() *Fields {
	f.res.use("clone")
	c := NewFields()
	c.entries = cloneEntries(f.entries)
	return c
}

// Drop releases f.
func (f *Fields) Drop() {
	f.res.drop()
}

func (f *Fields) remove(name string) {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !strings.EqualFold(e.Name, name) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}

// child returns an immutable copy of f owned by parent.
func (f *Fields) child(parent *resource) *Fields {
	c := &Fields{entries: cloneEntries(f.entries), immutable: true}
	c.res.init("fields", parent)
	return c
}

func cloneEntries(entries []FieldEntry) []FieldEntry {
	if entries == nil {
		return nil
	}
	c := make([]FieldEntry, len(entries))
	for i, e := range entries {
		c[i] = FieldEntry{Name: e.Name, Value: append([]byte(nil), e.Value...)}
	}
	return c
}
