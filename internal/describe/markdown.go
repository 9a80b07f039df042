package describe

import "strings"

// FormatMarkdown collapses every run of two or more blank lines into a
// single empty line. Lines holding only whitespace count as blank. A final
// newline terminates the last line and is kept as is.
func FormatMarkdown(text string) string {
	body, terminated := strings.CutSuffix(text, "\n")

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if strings.TrimSpace(lines[i]) != "" {
			out = append(out, lines[i])
			i++
			continue
		}

		end := i
		for end < len(lines) && strings.TrimSpace(lines[end]) == "" {
			end++
		}
		if end-i == 1 {
			out = append(out, lines[i])
		} else {
			out = append(out, "")
		}
		i = end
	}

	result := strings.Join(out, "\n")
	if terminated {
		result += "\n"
	}
	return result
}
