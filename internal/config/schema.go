package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aryankumar/fanout/internal/util"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed run.schema.json
var runSchemaJSON []byte

const runSchemaURL = "run.schema.json"

var (
	runSchema   *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

func compileRunSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(runSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal run schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(runSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add run schema resource: %w", err)
			return
		}

		runSchema, err = compiler.Compile(runSchemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile run schema: %w", err)
		}
	})

	return compileErr
}

// ValidateSchema checks raw configuration file content against the embedded run schema.
// format is "json" or "yaml". Schema violations match util.ErrInvalidConfig.
func ValidateSchema(data []byte, format string) error {
	if err := compileRunSchema(); err != nil {
		return err
	}

	jsonData := data
	if format == "yaml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%w: invalid YAML: %w", util.ErrInvalidConfig, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: YAML document is not representable as JSON: %w", util.ErrInvalidConfig, err)
		}
		jsonData = converted
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", util.ErrInvalidConfig, err)
	}

	if err := runSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}

	return nil
}
