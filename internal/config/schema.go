package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "https://github.com/andyballingall/gdcheck/config.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add config schema: %w", err)
	}
	return c.Compile(configSchemaURL)
})

// validateDocument checks a decoded yaml document against the config schema.
// The document is round-tripped through JSON so that yaml scalars take their JSON form.
func validateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	return sch.Validate(inst)
}
