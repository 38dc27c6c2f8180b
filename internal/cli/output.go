// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/gogama/wasihttp"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// colorScheme defines the colors used for the parts of a response.
type colorScheme struct {
	statusOK    *color.Color
	statusWarn  *color.Color
	statusError *color.Color
	headerKey   *color.Color
	enabled     bool
}

func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		statusOK:    color.New(color.FgGreen, color.Bold),
		statusWarn:  color.New(color.FgYellow, color.Bold),
		statusError: color.New(color.FgRed, color.Bold),
		headerKey:   color.New(color.FgCyan),
		enabled:     enabled,
	}
	for _, c := range []*color.Color{s.statusOK, s.statusWarn, s.statusError, s.headerKey} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *colorScheme) status(code int) *color.Color {
	switch {
	case code >= 500:
		return s.statusError
	case code >= 300:
		return s.statusWarn
	default:
		return s.statusOK
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printHead writes the status line and the headers sorted by name.
func printHead(w io.Writer, s *colorScheme, resp *wasihttp.Response) {
	fmt.Fprintln(w, s.status(resp.Status()).Sprintf("HTTP %d", resp.Status()))
	headers := resp.Headers()
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", s.headerKey.Sprint(name), headers[name])
	}
	fmt.Fprintln(w)
}

// printBody writes body, pretty-printed if it is JSON.
func printBody(w io.Writer, s *colorScheme, body []byte) {
	if len(body) == 0 {
		return
	}
	if !gjson.ValidBytes(body) {
		w.Write(body)
		if body[len(body)-1] != '\n' {
			fmt.Fprintln(w)
		}
		return
	}
	out := pretty.Pretty(body)
	if s.enabled {
		out = pretty.Color(out, nil)
	}
	w.Write(out)
}
