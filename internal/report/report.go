package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// FormatAgentResponse renders an agent response as a Markdown document.
// Mappings with any of the recognized keys (thoughts, observations, answer)
// produce fixed-order sections; other mappings get a generic per-key dump;
// anything else is stringified.
func FormatAgentResponse(response any) string {
	m, ok := asStringMap(response)
	if !ok {
		return fmt.Sprintf("%v", response)
	}

	var parts []string
	if v, ok := m["thoughts"]; ok {
		parts = append(parts, "## Thought Process", fmt.Sprintf("%v", v))
	}
	if v, ok := m["observations"]; ok {
		parts = append(parts, "## Observations", fmt.Sprintf("%v", v))
	}
	if v, ok := m["answer"]; ok {
		parts = append(parts, "## Answer", fmt.Sprintf("%v", v))
	}

	if len(parts) == 0 {
		parts = append(parts, "## Results")
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, "### "+titleCase(k), fmt.Sprintf("%v", m[k]))
		}
	}

	return strings.Join(parts, "\n\n")
}

func asStringMap(response any) (map[string]any, bool) {
	switch m := response.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
