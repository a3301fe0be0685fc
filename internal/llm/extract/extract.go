// Package extract pulls component source out of model responses. Models wrap
// code in markdown fences and commentary; Code strips both and narrows the
// text to the module span so the result can be written straight to disk.
package extract

import "strings"

// Code cleans a model response down to the component source. It strips
// markdown code fences, then narrows to the span from the first import
// statement through the export default declaration. Input that is already
// clean passes through unchanged, so the function is idempotent.
func Code(raw string) string {
	text := stripFences(raw)
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "import ") {
			start = i
			break
		}
	}
	if start < 0 {
		return strings.TrimSpace(text)
	}

	exportLine := -1
	for i := len(lines) - 1; i >= start; i-- {
		if strings.Contains(lines[i], "export default") {
			exportLine = i
			break
		}
	}
	if exportLine < 0 {
		return strings.TrimSpace(strings.Join(lines[start:], "\n"))
	}

	end := exportLine
	// An export default that opens a block keeps everything that follows;
	// a plain `export default Name;` line ends the span.
	if strings.Contains(lines[exportLine], "{") && !strings.Contains(lines[exportLine], "}") {
		end = len(lines) - 1
	}
	return strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))
}

// stripFences removes a markdown fence wrapping the whole response: an
// opener on the first non-blank line and a closer on the last. Fence lines
// inside the body stay put, since component source can legitimately carry
// them in template literals.
func stripFences(raw string) string {
	lines := strings.Split(raw, "\n")

	first, last := -1, -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return raw
	}
	for i := len(lines) - 1; i >= first; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}

	var kept []string
	for i, line := range lines {
		isFence := strings.HasPrefix(strings.TrimSpace(line), "```")
		if isFence && (i == first || (i == last && i != first)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
