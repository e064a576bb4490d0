package extraction

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/record.schema.json
var recordSchemaJSON []byte

const recordSchemaURL = "record.schema.json"

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

// RecordSchema returns the JSON schema every serialized record satisfies
func RecordSchema() []byte {
	return append([]byte(nil), recordSchemaJSON...)
}

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(recordSchemaURL, bytes.NewReader(recordSchemaJSON)); err != nil {
			recordSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		recordSchema, recordSchemaErr = compiler.Compile(recordSchemaURL)
		if recordSchemaErr != nil {
			recordSchemaErr = fmt.Errorf("compile schema: %w", recordSchemaErr)
		}
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecordJSON checks serialized output against the record schema
func ValidateRecordJSON(data []byte) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
