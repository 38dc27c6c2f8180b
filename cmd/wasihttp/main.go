// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command wasihttp sends one HTTP request and prints the response.
package main

import (
	"fmt"
	"os"

	"github.com/gogama/wasihttp/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
