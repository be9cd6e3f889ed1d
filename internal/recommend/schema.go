package recommend

import (
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

const schemaName = "major_recommendations"

// generationSchema is the strict-mode schema sent with the request. Strict mode
// rejects numeric and length bounds, so those live in answerSchema.
func generationSchema(catalog *riasec.Catalog) map[string]any {
	major := map[string]any{"type": "string"}
	if names := catalog.Names(); len(names) > 0 {
		enum := make([]any, 0, len(names))
		for _, n := range names {
			enum = append(enum, n)
		}
		major["enum"] = enum
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"recommendations", "explanation"},
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"major", "matchRate", "reason"},
					"properties": map[string]any{
						"major":     major,
						"matchRate": map[string]any{"type": "integer"},
						"reason":    map[string]any{"type": "string"},
					},
				},
			},
			"explanation": map[string]any{"type": "string"},
		},
	}
}

// answerSchema is checked locally against every answer before it is decoded.
const answerSchema = `{
  "type": "object",
  "required": ["recommendations", "explanation"],
  "properties": {
    "recommendations": {
      "type": "array",
      "minItems": 1,
      "maxItems": 3,
      "items": {
        "type": "object",
        "required": ["major", "matchRate", "reason"],
        "properties": {
          "major": {"type": "string", "minLength": 1},
          "matchRate": {"type": "integer", "minimum": 0, "maximum": 100},
          "reason": {"type": "string", "minLength": 1}
        }
      }
    },
    "explanation": {"type": "string", "minLength": 1, "pattern": "\\S"}
  }
}`

var (
	answerSchemaOnce sync.Once
	compiledAnswer   *gojsonschema.Schema
	compileErr       error
)

func compiledAnswerSchema() (*gojsonschema.Schema, error) {
	answerSchemaOnce.Do(func() {
		compiledAnswer, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(answerSchema))
	})
	return compiledAnswer, compileErr
}
