// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validateSchema validates the JSON document body against the JSON
// Schema in the file at path.
func validateSchema(path string, body []byte) error {
	schemaText, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource("schema.json", bytes.NewReader(schemaText)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	if err = json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	if err = schema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
