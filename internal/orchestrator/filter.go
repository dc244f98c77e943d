package orchestrator

import "strings"

// contentDenylist marks lines that leak internal file paths or raw tool
// payload markers into the user-facing answer.
var contentDenylist = []string{
	"_circuit.png",
	"circuit_maps",
	"image source:",
	"image path:",
	"retrieved from:",
	"source:",
	"path:",
}

// filterContent strips denylisted lines from the final synthesized text.
// It is applied only to the response content; tool payloads pass through
// untouched so callers can still read image paths from tool_results.
func filterContent(content string) string {
	if content == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		lowered := strings.ToLower(line)
		blocked := false
		for _, marker := range contentDenylist {
			if strings.Contains(lowered, marker) {
				blocked = true
				break
			}
		}
		if !blocked {
			filtered = append(filtered, line)
		}
	}

	return strings.TrimSpace(strings.Join(filtered, "\n"))
}
