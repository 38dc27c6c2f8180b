// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gogama/wasihttp"
	"github.com/gogama/wasihttp/host"
	"github.com/spf13/cobra"
)

// newMethodCmd returns the subcommand sending a method request, for
// example "get URL".
func newMethodCmd(app *App, method string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: fmt.Sprintf("Send a %s request to URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, cmd, method, args[0])
		},
	}
	addRequestFlags(cmd)
	return cmd
}

// newRequestCmd returns the subcommand sending a request with any
// method.
func newRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request METHOD URL",
		Short: "Send a request with any method to URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !host.Method(args[0]).Valid() {
				return fmt.Errorf("invalid method %q", args[0])
			}
			return run(app, cmd, args[0], args[1])
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayP("header", "H", nil, "Header to send, as 'Name: value' (repeatable)")
	f.StringArrayP("query", "q", nil, "Query parameter to add, as key=value (repeatable)")
	f.String("json", "", "JSON request body")
	f.StringArrayP("form", "f", nil, "Form field to send, as key=value (repeatable)")
	f.StringP("data", "d", "", "Raw request body, or @file to read it from a file")
	f.StringP("user", "u", "", "Basic auth credentials, as user:password")
	f.Duration("connect-timeout", 0, "Connect timeout (0 keeps the configured or host default)")
	f.BoolP("include", "i", false, "Print the status line and response headers")
	f.String("path", "", "Print only the JSON value at this gjson path")
	f.String("schema", "", "Validate the JSON response against this JSON Schema file")
	f.Bool("raw", false, "Stream the body without formatting")
	f.Bool("fail", false, "Exit with an error on HTTP status 400 or above")
	cmd.MarkFlagsMutuallyExclusive("json", "form", "data")
	cmd.MarkFlagsMutuallyExclusive("raw", "path")
	cmd.MarkFlagsMutuallyExclusive("raw", "schema")
}

func run(app *App, cmd *cobra.Command, method, url string) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	noColor, _ := flags.GetBool("no-color")
	verbose, _ := flags.GetBool("verbose")

	cfg := &Config{}
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}

	b, err := buildRequest(app.client(cfg, verbose), cmd, cfg, method, url)
	if err != nil {
		return err
	}
	resp, err := b.Send()
	if err != nil {
		return err
	}
	defer resp.Close()

	out := app.out()
	scheme := newColorScheme(!noColor && isTerminal(out))
	if include, _ := flags.GetBool("include"); include {
		printHead(out, scheme, resp)
	}

	if err = printResponse(out, scheme, cmd, method, resp); err != nil {
		return err
	}
	if fail, _ := flags.GetBool("fail"); fail && resp.Status() >= 400 {
		return fmt.Errorf("server returned HTTP %d", resp.Status())
	}
	return nil
}

// buildRequest applies the config and the request flags to a new
// request builder.
func buildRequest(client *wasihttp.Client, cmd *cobra.Command, cfg *Config, method, url string) (*wasihttp.RequestBuilder, error) {
	flags := cmd.Flags()
	b := client.Request(method, url)

	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.Header(name, cfg.Headers[name])
	}

	headers, _ := flags.GetStringArray("header")
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		b.AddHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	query, _ := flags.GetStringArray("query")
	if len(query) > 0 {
		pairs, err := parsePairs("query", query)
		if err != nil {
			return nil, err
		}
		b.Query(pairs)
	}

	if user, _ := flags.GetString("user"); user != "" {
		username, password, _ := strings.Cut(user, ":")
		b.BasicAuth(username, password)
	}

	if flags.Changed("connect-timeout") {
		d, _ := flags.GetDuration("connect-timeout")
		if d < 0 {
			return nil, errors.New("negative --connect-timeout")
		}
		if d > 0 {
			b.ConnectTimeout(d)
		}
	}

	switch {
	case flags.Changed("json"):
		raw, _ := flags.GetString("json")
		if !json.Valid([]byte(raw)) {
			return nil, errors.New("--json is not valid JSON")
		}
		b.JSON(json.RawMessage(raw))
	case flags.Changed("form"):
		form, _ := flags.GetStringArray("form")
		pairs, err := parsePairs("form", form)
		if err != nil {
			return nil, err
		}
		b.Form(pairs)
	case flags.Changed("data"):
		data, _ := flags.GetString("data")
		body, err := readData(data)
		if err != nil {
			return nil, err
		}
		b.Body(body)
	}

	return b, b.Err()
}

func printResponse(out io.Writer, scheme *colorScheme, cmd *cobra.Command, method string, resp *wasihttp.Response) error {
	flags := cmd.Flags()
	if method == string(host.MethodHead) {
		return nil
	}

	if raw, _ := flags.GetBool("raw"); raw {
		for {
			chunk, err := resp.Chunk(wasihttp.DefaultChunkSize)
			if err != nil {
				return err
			}
			if chunk == nil {
				return nil
			}
			if _, err = out.Write(chunk); err != nil {
				return err
			}
		}
	}

	body, err := resp.Body()
	if err != nil {
		return err
	}
	if schemaPath, _ := flags.GetString("schema"); schemaPath != "" {
		if err = validateSchema(schemaPath, body); err != nil {
			return err
		}
	}
	if path, _ := flags.GetString("path"); path != "" {
		result, err := resp.JSONPath(path)
		if err != nil {
			return err
		}
		if !result.Exists() {
			return fmt.Errorf("path %q not found in response", path)
		}
		if result.IsObject() || result.IsArray() {
			printBody(out, scheme, []byte(result.Raw))
		} else {
			fmt.Fprintln(out, result.String())
		}
		return nil
	}
	printBody(out, scheme, body)
	return nil
}

// parsePairs splits key=value arguments, keeping their order. A missing
// "=" means an empty value.
func parsePairs(flag string, args []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(args))
	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid --%s %q: empty key", flag, arg)
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}

func readData(data string) ([]byte, error) {
	if !strings.HasPrefix(data, "@") {
		return []byte(data), nil
	}
	b, err := os.ReadFile(data[1:])
	if err != nil {
		return nil, fmt.Errorf("reading --data file: %w", err)
	}
	return b, nil
}
