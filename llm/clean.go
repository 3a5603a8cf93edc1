/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package llm

import (
	"encoding/json"
	"strings"
)

// CleanCodeResponse removes markdown code fences from an LLM reply.
func CleanCodeResponse(response string) string {
	response = strings.TrimSpace(response)

	prefixes := []string{
		"```python", "```py",
		"```json",
		"```",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimPrefix(response, prefix)
			break
		}
	}

	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}

	return strings.TrimSpace(response)
}

// ExtractJSONObject pulls the first balanced JSON object out of an LLM reply.
// Replies often wrap the object in prose or markdown fences; fenced content is
// preferred when present. Returns "" when no valid object is found.
func ExtractJSONObject(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			response = strings.TrimSpace(response[start : start+end])
		}
	} else if idx := strings.Index(response, "```"); idx != -1 {
		start := idx + 3
		// Skip language tag if present
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			response = strings.TrimSpace(response[start : start+end])
		}
	}

	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return ""
	}

	// Braces inside string literals must not affect the balance.
	braceCount := 0
	endIdx := startIdx
	inString := false
	escaped := false
	for i := startIdx; i < len(response); i++ {
		c := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				endIdx = i + 1
			}
		}
		if braceCount == 0 && endIdx > startIdx {
			break
		}
	}
	if endIdx <= startIdx {
		return ""
	}

	jsonStr := response[startIdx:endIdx]
	var test interface{}
	if err := json.Unmarshal([]byte(jsonStr), &test); err != nil {
		return ""
	}
	return jsonStr
}
