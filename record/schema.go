package record

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchema reports a serialized record that does not match the record schema.
var ErrSchema = errors.New("record: schema violation")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON Schema of a serialized record.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// Validate checks a serialized record against the record schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("record: validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}
