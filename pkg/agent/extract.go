package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Matches a triple-backtick fence with an optional "json" tag.
var fencePattern = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]+?)\\s*```")

// ExtractJSONObject pulls a single JSON object out of free-form model output.
// Ordered fallback, first success wins:
//  1. parse the entire string,
//  2. parse the interior of a fenced code block,
//  3. parse the greedy first-'{'-to-last-'}' span.
func ExtractJSONObject(content string) (map[string]interface{}, error) {
	if data, err := parseObject(content); err == nil {
		return data, nil
	}

	if m := fencePattern.FindStringSubmatch(content); m != nil {
		data, err := parseObject(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: fenced block is not a JSON object: %v", ErrMalformedOutput, err)
		}
		return data, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		if data, err := parseObject(content[start : end+1]); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
}

func parseObject(s string) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &data); err != nil {
		return nil, err
	}
	return data, nil
}
