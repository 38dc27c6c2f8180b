// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"
	urlpkg "net/url"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
)

// A Pair is a single key/value pair for query or form encoding.
type Pair struct {
	Key   string
	Value string
}

// EncodeForm encodes v in application/x-www-form-urlencoded form, which
// is also the URL query form.
//
// The supported types are:
//
// • url.Values, map[string]string and map[string][]string, which are
// encoded sorted by key;
//
// • [][2]string and []Pair, which are encoded in order;
//
// • structs and pointers to structs, encoded with go-querystring and
// its `url:"..."` field tags.
//
// Any other type is an error.
func EncodeForm(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case urlpkg.Values:
		return x.Encode(), nil
	case map[string][]string:
		return urlpkg.Values(x).Encode(), nil
	case map[string]string:
		vals := make(urlpkg.Values, len(x))
		for k, s := range x {
			vals.Set(k, s)
		}
		return vals.Encode(), nil
	case [][2]string:
		pairs := make([]Pair, len(x))
		for i, p := range x {
			pairs[i] = Pair{Key: p[0], Value: p[1]}
		}
		return encodePairs(pairs), nil
	case []Pair:
		return encodePairs(x), nil
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", fmt.Errorf("wasihttp/request: cannot form-encode value of type %T", v)
	}
	vals, err := query.Values(v)
	if err != nil {
		return "", err
	}
	return vals.Encode(), nil
}

func encodePairs(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(urlpkg.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(urlpkg.QueryEscape(p.Value))
	}
	return b.String()
}

// MergeQuery appends an encoded query string to the existing raw query
// of u.
func MergeQuery(u *urlpkg.URL, encoded string) {
	if encoded == "" {
		return
	}
	if u.RawQuery == "" {
		u.RawQuery = encoded
	} else {
		u.RawQuery += "&" + encoded
	}
	u.ForceQuery = false
}

// EncodeJSON encodes v as JSON.
func EncodeJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
