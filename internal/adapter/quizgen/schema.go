package quizgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionListSchema describes the generation payload. Domain invariants
// (answer among options, unique options) are checked after the schema.
const questionListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question", "options", "answer"],
    "properties": {
      "id": {},
      "question": {"type": "string", "minLength": 1},
      "options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
      "answer": {"type": "string"},
      "explanation": {"type": "string"}
    }
  }
}`

const analysisSchema = `{
  "type": "object",
  "properties": {
    "feedback": {"type": "string"},
    "flashcards": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "front": {"type": "string"},
          "back": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchemas sync.Map // name -> *jsonschema.Schema

func compiledSchema(name, definition string) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(definition))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://quizforge/%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	compiledSchemas.Store(name, compiled)
	return compiled, nil
}
