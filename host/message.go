// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// A Message is an immutable snapshot of a finished OutgoingRequest, as
// a host backend sees it when the request is handed over.
type Message struct {
	Method        Method
	Scheme        Scheme
	Authority     string
	PathWithQuery string
	Header        []FieldEntry
	Body          []byte
}

// URL returns the absolute request URL.
func (m *Message) URL() string {
	return m.Scheme.String() + "://" + m.Authority + m.PathWithQuery
}

// HeaderValue returns the first value for name, or "" if there is
// none.
func (m *Message) HeaderValue(name string) string {
	for _, e := range m.Header {
		if strings.EqualFold(e.Name, name) {
			return string(e.Value)
		}
	}
	return ""
}

// WriteTo writes m in HTTP/1.1 wire format: the request line, a Host
// header from the authority, the header fields, a Content-Length if
// there is a body and none was given, a blank line and the body.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	bw.WriteString(string(m.Method))
	bw.WriteByte(' ')
	bw.WriteString(m.PathWithQuery)
	bw.WriteString(" HTTP/1.1\r\n")
	if m.Authority != "" {
		bw.WriteString("Host: ")
		bw.WriteString(hostOnly(m.Authority))
		bw.WriteString("\r\n")
	}
	hasLength := false
	for _, e := range m.Header {
		if strings.EqualFold(e.Name, "Content-Length") {
			hasLength = true
		}
		bw.WriteString(e.Name)
		bw.WriteString(": ")
		bw.Write(e.Value)
		bw.WriteString("\r\n")
	}
	if len(m.Body) > 0 && !hasLength {
		bw.WriteString("Content-Length: ")
		bw.WriteString(strconv.Itoa(len(m.Body)))
		bw.WriteString("\r\n")
	}
	bw.WriteString("\r\n")
	bw.Write(m.Body)
	err := bw.Flush()
	return cw.n, err
}

// hostOnly strips userinfo, which never appears in a Host header.
func hostOnly(authority string) string {
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		return authority[i+1:]
	}
	return authority
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
