package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// GeneratedQuiz is a model-authored multiple-choice item after validation.
type GeneratedQuiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// generatedQuizSchema pins the shape the model is instructed to emit:
// exactly four options and a correct index inside them.
var generatedQuizSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"options": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 4,
			"maxItems": 4
		},
		"correct_index": {"type": "integer", "minimum": 0, "maximum": 3}
	},
	"required": ["question", "options", "correct_index"]
}`)

// StripFences removes a code-fence wrapper the model sometimes adds around
// its output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// ExtractQuizItem pulls the first JSON object out of model text, tolerating
// leading and trailing prose, and validates it against the quiz schema.
// The caller substitutes deterministic fallback content on any error; a raw
// parse failure never reaches the end user.
func ExtractQuizItem(text string) (GeneratedQuiz, error) {
	cleaned := StripFences(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return GeneratedQuiz{}, fmt.Errorf("no JSON object in model output")
	}
	doc := cleaned[start : end+1]

	result, err := gojsonschema.Validate(generatedQuizSchema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return GeneratedQuiz{}, fmt.Errorf("validating quiz JSON: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return GeneratedQuiz{}, fmt.Errorf("quiz JSON rejected: %s", strings.Join(details, "; "))
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(doc), &quiz); err != nil {
		return GeneratedQuiz{}, fmt.Errorf("decoding quiz JSON: %w", err)
	}
	return quiz, nil
}
