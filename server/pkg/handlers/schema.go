package handlers

import (
	"fmt"
	"sort"

	"github.com/kaptinlin/jsonschema"
)

const optionProperties = `
		"num_sentences": {"type": "integer", "minimum": 1, "maximum": 50},
		"top_n": {"type": "integer", "minimum": 1, "maximum": 100},
		"keywords": {"type": "boolean"},
		"phrases": {"type": "boolean"},
		"language": {"type": "string", "pattern": "^[a-zA-Z]{2,3}([-_][a-zA-Z0-9]{2,8})?$"}`

var textSchema = []byte(`{
	"type": "object",
	"description": "summarize text",
	"required": ["text"],
	"additionalProperties": false,
	"properties": {
		"text": {"type": "string"},` + optionProperties + `
	}
}`)

var urlSchema = []byte(`{
	"type": "object",
	"description": "summarize web page",
	"required": ["url"],
	"additionalProperties": false,
	"properties": {
		"url": {"type": "string", "pattern": "^https?://"},` + optionProperties + `
	}
}`)

var optionsSchema = []byte(`{
	"type": "object",
	"description": "summary options",
	"additionalProperties": false,
	"properties": {` + optionProperties + `
	}
}`)

// Validator checks decoded request bodies against a compiled JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator(schema []byte) (*Validator, error) {
	compiled, err := jsonschema.NewCompiler().Compile(schema)
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

func mustValidator(schema []byte) *Validator {
	v, err := NewValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns one message per failing keyword, sorted, or nil when data is valid.
func (v *Validator) Validate(data map[string]any) []string {
	result := v.schema.Validate(data)
	if result.IsValid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors))
	for keyword, e := range result.Errors {
		msgs = append(msgs, keyword+": "+e.Error())
	}
	sort.Strings(msgs)
	if len(msgs) == 0 {
		msgs = append(msgs, "request does not match schema")
	}
	return msgs
}
