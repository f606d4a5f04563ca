package ipc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// tickSchema constrains the tick payload before it reaches the core. The
// core tolerates missing players or flags; what it cannot tolerate is a
// payload that isn't a tick at all.
const tickSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tick", "players"],
  "properties": {
    "tick": {"type": "integer", "minimum": 0},
    "players": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "team", "posX", "posY"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "team": {"enum": ["L", "R"]},
          "posX": {"type": "integer"},
          "posY": {"type": "integer"},
          "hasFlag": {"type": "boolean"},
          "inPrison": {"type": "boolean"}
        }
      }
    },
    "flags": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["posX", "posY", "team"],
        "properties": {
          "posX": {"type": "integer"},
          "posY": {"type": "integer"},
          "team": {"enum": ["L", "R"]},
          "canPickup": {"type": "boolean"}
        }
      }
    },
    "scores": {
      "type": "object",
      "properties": {
        "L": {"type": "integer"},
        "R": {"type": "integer"}
      }
    }
  }
}`

// Validator checks incoming payloads against their schemas. Compiled once
// at startup; validation failures are reported as errors, never panics.
type Validator struct {
	tick *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("tick.json", strings.NewReader(tickSchema)); err != nil {
		return nil, fmt.Errorf("add tick schema: %w", err)
	}
	s, err := c.Compile("tick.json")
	if err != nil {
		return nil, fmt.Errorf("compile tick schema: %w", err)
	}
	return &Validator{tick: s}, nil
}

// ValidateTick checks a raw tick payload against the schema.
func (v *Validator) ValidateTick(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode tick payload: %w", err)
	}
	if err := v.tick.Validate(doc); err != nil {
		return fmt.Errorf("tick payload: %w", err)
	}
	return nil
}
