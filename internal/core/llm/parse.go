package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Greedy capture of the first JSON object in a completion, tolerating code
// fences and prose around it.
var jsonRe = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON decodes the first JSON object found in text into out.
func ExtractJSON(text string, out interface{}) error {
	match := jsonRe.FindString(strings.TrimSpace(text))
	if match == "" {
		return fmt.Errorf("completion did not contain a JSON object")
	}
	if err := json.Unmarshal([]byte(match), out); err != nil {
		return fmt.Errorf("completion JSON is invalid: %w", err)
	}
	return nil
}
