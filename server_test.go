// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gogama/wasihttp/host/nethost"
)

// The test servers mimic the small part of httpbin.org the tests use:
//
//	/get            echoes args and headers as JSON
//	/post, /put     echo args, headers, form, data and json as JSON
//	/status/{code}  replies with the status code
//	/bytes/{n}      replies with n bytes of 'x'
//	/headers        sets every ?name=value query pair as a header
var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var httpsServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var http2Server = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var servers = []*httptest.Server{httpServer, httpsServer, http2Server}

func TestMain(m *testing.M) {
	httpServer.Start()
	httpsServer.StartTLS()
	http2Server.EnableHTTP2 = true
	http2Server.StartTLS()
	code := m.Run()
	httpServer.Close()
	httpsServer.Close()
	http2Server.Close()
	os.Exit(code)
}

func serverName(server *httptest.Server) string {
	switch server {
	case httpServer:
		return "http"
	case httpsServer:
		return "https"
	case http2Server:
		return "http2"
	default:
		panic("unknown server")
	}
}

// serverClient returns a client whose nethost handler trusts server's
// certificate.
func serverClient(server *httptest.Server) *Client {
	h := &nethost.Handler{}
	if t, ok := server.Client().Transport.(*http.Transport); ok && t.TLSClientConfig != nil {
		h.TLSClientConfig = t.TLSClientConfig
	}
	return &Client{Host: h}
}

type echo struct {
	Method  string            `json:"method"`
	Proto   string            `json:"proto"`
	Args    map[string]string `json:"args"`
	Headers map[string]string `json:"headers"`
	Form    map[string]string `json:"form,omitempty"`
	Data    string            `json:"data"`
	JSON    json.RawMessage   `json:"json,omitempty"`
}

func serverHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/get" || r.URL.Path == "/post" || r.URL.Path == "/put":
		serveEcho(w, r)
	case strings.HasPrefix(r.URL.Path, "/status/"):
		code, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/status/"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
	case strings.HasPrefix(r.URL.Path, "/bytes/"):
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/bytes/"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, strings.Repeat("x", n))
	case r.URL.Path == "/headers":
		for name, values := range r.URL.Query() {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func serveEcho(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e := echo{
		Method:  r.Method,
		Proto:   r.Proto,
		Args:    flatten(r.URL.Query()),
		Headers: make(map[string]string),
		Data:    string(body),
	}
	for name := range r.Header {
		e.Headers[name] = r.Header.Get(name)
	}
	switch r.Header.Get("Content-Type") {
	case contentTypeForm:
		form, err := parseQuery(string(body))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.Form = form
	case contentTypeJSON:
		if !json.Valid(body) {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		e.JSON = body
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	if err = json.NewEncoder(w).Encode(e); err != nil {
		panic(fmt.Sprintf("encoding echo: %v", err))
	}
}

func parseQuery(s string) (map[string]string, error) {
	v, err := url.ParseQuery(s)
	if err != nil {
		return nil, err
	}
	return flatten(v), nil
}

// flatten keeps the first value of each key.
func flatten(v url.Values) map[string]string {
	m := make(map[string]string, len(v))
	for k := range v {
		m[k] = v.Get(k)
	}
	return m
}
