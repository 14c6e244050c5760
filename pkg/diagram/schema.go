package diagram

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/geometry-event-v1.json
var eventSchemaJSON []byte

var (
	eventSchemaOnce sync.Once
	eventSchema     *gojsonschema.Schema
	eventSchemaErr  error
)

// EventSchema returns the raw JSON schema for a single geometry event
func EventSchema() []byte {
	return eventSchemaJSON
}

func compiledEventSchema() (*gojsonschema.Schema, error) {
	eventSchemaOnce.Do(func() {
		eventSchema, eventSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(eventSchemaJSON))
	})
	return eventSchema, eventSchemaErr
}

// ValidateEventJSON validates every event of a recorded stream against the
// geometry event schema. It accepts the same layouts as DecodeEvents.
func ValidateEventJSON(data []byte) error {
	schema, err := compiledEventSchema()
	if err != nil {
		return fmt.Errorf("failed to compile event schema: %w", err)
	}

	raws, err := rawEvents(data)
	if err != nil {
		return err
	}

	for i, raw := range raws {
		result, err := schema.Validate(gojsonschema.NewStringLoader(raw.Raw))
		if err != nil {
			return fmt.Errorf("event %d: schema validation error: %w", i, err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
			}
			return fmt.Errorf("event %d: %s: %w", i, strings.Join(msgs, "; "), flowerrors.ErrInvalidEvent)
		}
	}
	return nil
}
