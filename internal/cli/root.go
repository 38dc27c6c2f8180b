// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the wasihttp command line.
package cli

import (
	"io"
	"os"

	"github.com/gogama/wasihttp"
	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/internal/log"
	"github.com/gogama/wasihttp/plugin"
	"github.com/spf13/cobra"
)

// App holds the dependencies of the commands. The zero value writes to
// os.Stdout and os.Stderr and sends requests through the default host.
type App struct {
	// Host overrides the host handler requests are sent through.
	Host host.OutgoingHandler
	// Out receives responses; Err receives logs and errors.
	Out io.Writer
	Err io.Writer
}

func (a *App) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *App) errOut() io.Writer {
	if a.Err == nil {
		return os.Stderr
	}
	return a.Err
}

// client builds the client for one invocation from cfg, installing the
// logging and request ID plugins.
func (a *App) client(cfg *Config, verbose bool) *wasihttp.Client {
	logCfg := log.FromEnv()
	logCfg.Output = a.errOut()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger := log.New(logCfg)

	handlers := &wasihttp.HandlerGroup{}
	if cfg.RequestID {
		plugin.InstallRequestID(handlers, "")
	}
	plugin.InstallLogging(handlers, logger)

	return &wasihttp.Client{
		Host:           a.Host,
		ConnectTimeout: cfg.ConnectTimeout,
		Handlers:       handlers,
	}
}

// NewRootCmd returns the root command with one subcommand per HTTP
// method and a generic "request" subcommand.
func NewRootCmd(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}
	cmd := &cobra.Command{
		Use:   "wasihttp",
		Short: "Send HTTP requests through the wasihttp client",
		Long: `wasihttp sends one HTTP request through the wasihttp client and
prints the response.

Examples:
  wasihttp get https://httpbin.org/get -q a=b
  wasihttp post https://httpbin.org/post -f a=b -f c=
  wasihttp post https://httpbin.org/post --json '{"k":1}' --path json.k`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(app.out())
	cmd.SetErr(app.errOut())

	cmd.PersistentFlags().String("config", "", "Path to YAML config file")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log request details to stderr")

	for _, method := range []string{
		string(host.MethodGet),
		string(host.MethodHead),
		string(host.MethodPost),
		string(host.MethodPut),
		string(host.MethodDelete),
		string(host.MethodOptions),
		string(host.MethodPatch),
	} {
		cmd.AddCommand(newMethodCmd(app, method))
	}
	cmd.AddCommand(newRequestCmd(app))
	return cmd
}
